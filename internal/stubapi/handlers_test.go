package stubapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rmontanez/shopfront/pkg/types"
)

func postJSON(t *testing.T, srv *httptest.Server, path, token string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, srv.URL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func signInAdmin(t *testing.T, srv *httptest.Server) types.User {
	t.Helper()
	resp := postJSON(t, srv, "/api/users/signin", "", map[string]string{
		"email":    "admin@example.com",
		"password": "secret1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signin status = %d", resp.StatusCode)
	}
	var user types.User
	decodeBody(t, resp, &user)
	if user.Token == "" {
		t.Fatal("signin returned no token")
	}
	return user
}

func TestSignInRejectsBadPassword(t *testing.T) {
	srv := httptest.NewServer(New().Handler())
	defer srv.Close()

	resp := postJSON(t, srv, "/api/users/signin", "", map[string]string{
		"email":    "admin@example.com",
		"password": "wrong",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Invalid email or password" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestUserListRequiresAdmin(t *testing.T) {
	srv := httptest.NewServer(New().Handler())
	defer srv.Close()

	resp := postJSON(t, srv, "/api/users/signup", "", map[string]string{
		"name":     "Buyer",
		"email":    "buyer@example.com",
		"password": "secret1",
	})
	var buyer types.User
	decodeBody(t, resp, &buyer)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+buyer.Token)
	got, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	defer got.Body.Close()
	if got.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", got.StatusCode)
	}
}

func TestOrderLifecycle(t *testing.T) {
	srv := httptest.NewServer(New().Handler())
	defer srv.Close()

	admin := signInAdmin(t, srv)

	resp := postJSON(t, srv, "/api/orders", admin.Token, types.Order{})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create order status = %d", resp.StatusCode)
	}
	var created struct {
		Order types.Order `json:"order"`
	}
	decodeBody(t, resp, &created)
	if created.Order.ID == "" {
		t.Fatal("created order has no id")
	}

	resp = postJSON(t, srv, "/api/orders/"+created.Order.ID+"/pay", admin.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pay status = %d", resp.StatusCode)
	}
	var paid struct {
		Order types.Order `json:"order"`
	}
	decodeBody(t, resp, &paid)
	if !paid.Order.IsPaid || paid.Order.PaidAt == nil {
		t.Errorf("order not marked paid: %+v", paid.Order)
	}
}
