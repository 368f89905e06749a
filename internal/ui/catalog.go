package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"ecommerce-storefront/internal/api"
	"ecommerce-storefront/internal/models"
)

const catalogPageSize = 100

// CatalogScreen shows the first page of the product list. It is in
// exactly one of three render states: loading, error (with a retry
// affordance), or the list itself.
type CatalogScreen struct {
	Client *api.Client
	Ctrl   *Controller
	Log    zerolog.Logger

	loading  bool
	errMsg   string
	products []models.Product

	// gen fences overlapping fetches: only the newest dispatched fetch
	// may write results back.
	gen uint64
}

func NewCatalogScreen(client *api.Client, ctrl *Controller, log zerolog.Logger) *CatalogScreen {
	return &CatalogScreen{Client: client, Ctrl: ctrl, Log: log}
}

// Activate fetches the catalog. Also serves as the retry action.
func (s *CatalogScreen) Activate(ctx context.Context) {
	s.gen++
	gen := s.gen
	s.loading = true
	s.errMsg = ""

	products, err := s.Client.ListProducts(ctx, 0, catalogPageSize)
	if gen != s.gen {
		// A newer fetch was dispatched while this one was in flight;
		// its outcome wins.
		return
	}
	s.loading = false
	if err != nil {
		s.Log.Error().Err(err).Msg("product list fetch failed")
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			s.errMsg = apiErr.Detail
		} else {
			s.errMsg = "Failed to load products"
		}
		return
	}
	s.products = products
}

func (s *CatalogScreen) Products() []models.Product { return s.products }

// Product looks a product up by id in the fetched page.
func (s *CatalogScreen) Product(id int) (models.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Add puts one unit of the product into the cart. Out-of-stock products
// cannot be added; that mirrors the disabled control on the card.
func (s *CatalogScreen) Add(id int) error {
	p, ok := s.Product(id)
	if !ok {
		return fmt.Errorf("no product with id %d", id)
	}
	if p.Stock == 0 {
		return fmt.Errorf("%s is out of stock", p.Name)
	}
	s.Ctrl.AddToCart(p)
	return nil
}

func (s *CatalogScreen) Render(w io.Writer) {
	if s.loading {
		fmt.Fprintln(w, "Loading products...")
		return
	}
	if s.errMsg != "" {
		fmt.Fprintf(w, "Error: %s\n", s.errMsg)
		fmt.Fprintln(w, "Type 'refresh' to retry.")
		return
	}
	if len(s.products) == 0 {
		fmt.Fprintln(w, "No products available. Check back later for new items!")
		return
	}

	fmt.Fprintf(w, "Products (%d)\n", len(s.products))
	for _, p := range s.products {
		line := fmt.Sprintf("  [%d] %s  $%.2f  stock %d", p.ID, p.Name, p.Price, p.Stock)
		if p.Category != "" {
			line += "  (" + p.Category + ")"
		}
		if q := s.Ctrl.CartQuantity(p.ID); q > 0 {
			line += fmt.Sprintf("  [in cart: %d]", q)
		}
		if p.Stock == 0 {
			line += "  [out of stock]"
		}
		fmt.Fprintln(w, line)
	}
}
