package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"ecommerce-storefront/internal/api"
	"ecommerce-storefront/internal/models"
	"ecommerce-storefront/internal/session"
)

// memStore is an in-memory session.Store that counts writes, so tests
// can check the persisted mirror keeps up with every mutation.
type memStore struct {
	token     string
	cart      []models.CartItem
	cartSaves int
}

var _ session.Store = (*memStore)(nil)

func (m *memStore) Load() (session.Session, error) {
	cart := m.cart
	if cart == nil {
		cart = []models.CartItem{}
	}
	return session.Session{Token: m.token, Cart: cart}, nil
}

func (m *memStore) SaveToken(token string) error {
	m.token = token
	return nil
}

func (m *memStore) ClearToken() error {
	m.token = ""
	return nil
}

func (m *memStore) SaveCart(cart []models.CartItem) error {
	m.cart = append([]models.CartItem(nil), cart...)
	m.cartSaves++
	return nil
}

func (m *memStore) ClearCart() error {
	m.cart = nil
	return nil
}

func newTestController(t *testing.T) (*Controller, *memStore) {
	t.Helper()
	store := &memStore{}
	ctrl := NewController(store, zerolog.Nop())
	ctrl.LoginSuccess("tok-abc")
	return ctrl, store
}

func testProduct(id int, name string, price float64, stock int) models.Product {
	return models.Product{ID: id, Name: name, Price: price, Stock: stock}
}

// backendOpts configures the stub storefront API served to screen tests.
type backendOpts struct {
	products       []models.Product
	productsStatus int // non-zero overrides the 200 product list
	productsDetail string
	orderStatus    int
	orderDetail    string
	orders         int // create calls observed
}

func newScreenClient(t *testing.T, opts *backendOpts) *api.Client {
	t.Helper()
	r := chi.NewRouter()

	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		_ = req.ParseForm()
		if req.PostFormValue("password") == "wrong-pass" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
			return
		}
		writeJSON(w, http.StatusOK, models.Token{AccessToken: "tok-abc", TokenType: "bearer"})
	})
	r.Post("/api/auth/register", func(w http.ResponseWriter, req *http.Request) {
		var body models.RegisterRequest
		_ = json.NewDecoder(req.Body).Decode(&body)
		writeJSON(w, http.StatusOK, models.User{ID: 7, Email: body.Email, Username: body.Username})
	})
	r.Get("/api/products/", func(w http.ResponseWriter, req *http.Request) {
		if opts.productsStatus != 0 && opts.productsStatus != http.StatusOK {
			writeJSON(w, opts.productsStatus, map[string]string{"detail": opts.productsDetail})
			return
		}
		writeJSON(w, http.StatusOK, opts.products)
	})
	r.Post("/api/orders/", func(w http.ResponseWriter, req *http.Request) {
		opts.orders++
		if opts.orderStatus != 0 && opts.orderStatus != http.StatusOK {
			writeJSON(w, opts.orderStatus, map[string]string{"detail": opts.orderDetail})
			return
		}
		var body models.OrderRequest
		_ = json.NewDecoder(req.Body).Decode(&body)
		writeJSON(w, http.StatusOK, models.Order{
			ID: 42, TotalAmount: models.CartTotal(nil), Status: "pending",
			ShippingAddress: body.ShippingAddress, Items: body.Items,
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, zerolog.Nop())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
