// Package stubapi is an in-memory rendition of the storefront backend. It
// exists for local development and integration tests: every endpoint the
// gateway client calls is served here, with data seeded at construction and
// lost at shutdown.
package stubapi

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmontanez/shopfront/pkg/enums"
	"github.com/rmontanez/shopfront/pkg/logger"
	"github.com/rmontanez/shopfront/pkg/types"
)

type account struct {
	user     types.User
	password string
}

// Server holds the fake backend state behind one mutex. Plenty for a dev
// stub; nothing here is meant to scale.
type Server struct {
	mu       sync.Mutex
	accounts map[string]account
	products []types.Product
	orders   map[string]orderRecord
	secret   []byte
	clientID string
	logg     *logger.Logger
	now      func() time.Time
}

type orderRecord struct {
	order   types.Order
	ownerID string
}

// Option configures the stub server.
type Option func(*Server)

// WithSecret overrides the token signing secret.
func WithSecret(secret string) Option {
	return func(s *Server) {
		if secret != "" {
			s.secret = []byte(secret)
		}
	}
}

// WithPayPalClientID overrides the sandbox client id served at the key
// endpoint.
func WithPayPalClientID(clientID string) Option {
	return func(s *Server) {
		if clientID != "" {
			s.clientID = clientID
		}
	}
}

// WithLogger attaches the structured logger.
func WithLogger(logg *logger.Logger) Option {
	return func(s *Server) {
		s.logg = logg
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a stub backend seeded with an admin account and a small catalog.
func New(opts ...Option) *Server {
	s := &Server{
		accounts: map[string]account{},
		orders:   map[string]orderRecord{},
		secret:   []byte("stubapi-dev-secret"),
		clientID: "sb",
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.seed()
	return s
}

func (s *Server) seed() {
	admin := types.User{
		ID:    uuid.NewString(),
		Name:  "Admin",
		Email: "admin@example.com",
		Role:  enums.RoleAdmin,
	}
	s.accounts[admin.Email] = account{user: admin, password: "secret1"}

	s.products = []types.Product{
		{
			ID:           uuid.NewString(),
			Name:         "Slim Shirt",
			Slug:         "slim-shirt",
			Image:        "/images/shirt.jpg",
			Category:     "Shirts",
			Brand:        "Acme",
			Price:        decimal.NewFromInt(60),
			CountInStock: 10,
			Description:  "A slim fit shirt",
			Rating:       4.5,
			NumReviews:   10,
		},
		{
			ID:           uuid.NewString(),
			Name:         "Fit Pants",
			Slug:         "fit-pants",
			Image:        "/images/pants.jpg",
			Category:     "Pants",
			Brand:        "Acme",
			Price:        decimal.NewFromInt(65),
			CountInStock: 17,
			Description:  "Comfortable pants",
			Rating:       4.2,
			NumReviews:   14,
		},
	}
}
