package stubapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rmontanez/shopfront/pkg/enums"
	"github.com/rmontanez/shopfront/pkg/types"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// Handler wires every endpoint the storefront gateway calls.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	if s.logg != nil {
		r.Use(s.logging)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/signin", s.handleSignIn)
			r.Post("/signup", s.handleSignUp)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth, s.requireAdmin)
				r.Get("/", s.handleListUsers)
				r.Post("/createuser", s.handleCreateUser)
				r.Delete("/{id}", s.handleDeleteUser)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handleListProducts)
			r.Get("/slug/{slug}", s.handleProductBySlug)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth, s.requireAdmin)
				r.Post("/addproducts", s.handleCreateProduct)
				r.Delete("/{id}", s.handleDeleteProduct)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateOrder)
			r.Get("/", s.handleListOrders)
			r.Get("/{id}", s.handleOrderByID)
			r.Post("/{id}/pay", s.handlePayOrder)
		})

		r.With(s.requireAuth).Get("/keys/paypal", s.handlePayPalKey)
	})

	return r
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		next.ServeHTTP(w, r)
		ctx := s.logg.WithFields(r.Context(), map[string]any{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": s.now().Sub(start).String(),
		})
		s.logg.Debug(ctx, "stub request")
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeMessage(w, http.StatusUnauthorized, "Token is missing")
			return
		}
		claims, err := s.parseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid Token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(claimsKey).(*accessClaims)
		if claims == nil || claims.Role != enums.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "Admin Token is not valid")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[body.Email]
	s.mu.Unlock()
	if !ok || acct.password != body.Password {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s.respondWithToken(w, acct.user)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[body.Email]; exists {
		s.mu.Unlock()
		writeMessage(w, http.StatusBadRequest, "Email already registered")
		return
	}
	user := types.User{
		ID:    uuid.NewString(),
		Name:  body.Name,
		Email: body.Email,
		Role:  enums.RoleUser,
	}
	s.accounts[body.Email] = account{user: user, password: body.Password}
	s.mu.Unlock()

	s.respondWithToken(w, user)
}

func (s *Server) respondWithToken(w http.ResponseWriter, user types.User) {
	token, err := s.mintToken(user.ID, user.Email, user.Role)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Could not mint token")
		return
	}
	user.Token = token
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := make([]types.User, 0, len(s.accounts))
	for _, acct := range s.accounts {
		users = append(users, acct.user)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	role, err := enums.ParseRole(body.Role)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid role")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[body.Email]; exists {
		s.mu.Unlock()
		writeMessage(w, http.StatusBadRequest, "Email already registered")
		return
	}
	user := types.User{
		ID:    uuid.NewString(),
		Name:  body.Name,
		Email: body.Email,
		Role:  role,
	}
	s.accounts[body.Email] = account{user: user, password: body.Password}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for email, acct := range s.accounts {
		if acct.user.ID == id {
			delete(s.accounts, email)
			writeMessage(w, http.StatusOK, "User Deleted")
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "User Not Found")
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	products := make([]types.Product, len(s.products))
	copy(products, s.products)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, product := range s.products {
		if product.Slug == slug {
			writeJSON(w, http.StatusOK, product)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Product Not Found")
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var product types.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	product.ID = uuid.NewString()

	s.mu.Lock()
	s.products = append(s.products, product)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, product)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, product := range s.products {
		if product.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			writeMessage(w, http.StatusOK, "Product Deleted")
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Product Not Found")
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := r.Context().Value(claimsKey).(*accessClaims)

	var order types.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	order.ID = uuid.NewString()
	created := s.now()
	order.CreatedAt = &created

	s.mu.Lock()
	s.orders[order.ID] = orderRecord{order: order, ownerID: claims.Subject}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "New Order Created",
		"order":   order,
	})
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	claims, _ := r.Context().Value(claimsKey).(*accessClaims)

	s.mu.Lock()
	orders := make([]types.Order, 0, len(s.orders))
	for _, record := range s.orders {
		if claims.Role == enums.RoleAdmin || record.ownerID == claims.Subject {
			orders = append(orders, record.order)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Orders Found",
		"orders":  orders,
	})
}

func (s *Server) handleOrderByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	record, ok := s.orders[id]
	s.mu.Unlock()
	if !ok {
		writeMessage(w, http.StatusNotFound, "Order Not Found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Order Found",
		"order":   record.order,
	})
}

func (s *Server) handlePayOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	record, ok := s.orders[id]
	if ok {
		paidAt := s.now()
		record.order.IsPaid = true
		record.order.PaidAt = &paidAt
		s.orders[id] = record
	}
	s.mu.Unlock()
	if !ok {
		writeMessage(w, http.StatusNotFound, "Order Not Found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Order Paid",
		"order":   record.order,
	})
}

func (s *Server) handlePayPalKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "PayPal Client ID",
		"clientId": s.clientID,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
