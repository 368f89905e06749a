package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"ecommerce-storefront/internal/api"
	"ecommerce-storefront/internal/models"
)

const (
	minAddressLen      = 10
	successDisplayTime = 3 * time.Second
)

// CartScreen renders the cart lines and runs checkout. The success
// banner is transient: it carries an expiry and disappears from the next
// render after that.
type CartScreen struct {
	Client *api.Client
	Ctrl   *Controller
	Log    zerolog.Logger

	address      string
	errMsg       string
	successUntil time.Time

	now func() time.Time
}

func NewCartScreen(client *api.Client, ctrl *Controller, log zerolog.Logger) *CartScreen {
	return &CartScreen{Client: client, Ctrl: ctrl, Log: log, now: time.Now}
}

func (s *CartScreen) SetAddress(addr string) {
	s.address = strings.TrimSpace(addr)
}

func (s *CartScreen) Address() string { return s.address }

// Increment bumps a line by one, stopping at the product's stock. The
// stop is silent, same as a disabled "+" control.
func (s *CartScreen) Increment(productID int) {
	for _, it := range s.Ctrl.Cart() {
		if it.Product.ID == productID {
			if it.Quantity < it.Product.Stock {
				s.Ctrl.UpdateQuantity(productID, it.Quantity+1)
			}
			return
		}
	}
}

// Decrement lowers a line by one, never below 1. Removing a line is an
// explicit action, not a decrement past the floor.
func (s *CartScreen) Decrement(productID int) {
	for _, it := range s.Ctrl.Cart() {
		if it.Product.ID == productID {
			if it.Quantity > 1 {
				s.Ctrl.UpdateQuantity(productID, it.Quantity-1)
			}
			return
		}
	}
}

func (s *CartScreen) Remove(productID int) {
	s.Ctrl.RemoveItem(productID)
}

// Checkout validates the address, snapshots the cart into an order
// request and submits it. On success the cart and address reset and the
// success banner arms; on failure the cart stays intact for a retry.
func (s *CartScreen) Checkout(ctx context.Context) error {
	s.errMsg = ""

	cart := s.Ctrl.Cart()
	if len(cart) == 0 {
		s.errMsg = "Your cart is empty"
		return errors.New(s.errMsg)
	}
	if utf8.RuneCountInString(s.address) < minAddressLen {
		s.errMsg = fmt.Sprintf("Shipping address must be at least %d characters", minAddressLen)
		return errors.New(s.errMsg)
	}

	req := models.OrderRequest{
		Items:           models.OrderItemsFromCart(cart),
		ShippingAddress: s.address,
	}
	order, err := s.Client.CreateOrder(ctx, req)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			s.errMsg = apiErr.Detail
		} else {
			s.errMsg = "Failed to place order. Please try again."
		}
		return err
	}

	s.Log.Info().Int("order_id", order.ID).Float64("total", order.TotalAmount).Msg("order placed")
	s.Ctrl.ClearCart()
	s.address = ""
	s.successUntil = s.now().Add(successDisplayTime)
	return nil
}

// ShowingSuccess reports whether the transient success banner is live.
func (s *CartScreen) ShowingSuccess() bool {
	return s.now().Before(s.successUntil)
}

func (s *CartScreen) ErrorMessage() string { return s.errMsg }

func (s *CartScreen) Render(w io.Writer) {
	if s.ShowingSuccess() {
		fmt.Fprintln(w, "Order placed successfully!")
	}

	cart := s.Ctrl.Cart()
	if len(cart) == 0 {
		fmt.Fprintln(w, "Your cart is empty. Add some products to get started!")
		return
	}

	fmt.Fprintf(w, "Shopping Cart (%d items)\n", len(cart))
	for _, it := range cart {
		fmt.Fprintf(w, "  [%d] %s  $%.2f x %d = $%.2f\n",
			it.Product.ID, it.Product.Name, it.Product.Price, it.Quantity,
			it.Product.Price*float64(it.Quantity))
	}
	total := models.CartTotal(cart)
	fmt.Fprintf(w, "  Subtotal: $%.2f\n", total)
	fmt.Fprintln(w, "  Shipping: Free")
	fmt.Fprintf(w, "  Total:    $%.2f\n", total)

	if s.address != "" {
		fmt.Fprintf(w, "  Shipping address: %s\n", s.address)
	}
	if s.errMsg != "" {
		fmt.Fprintf(w, "Error: %s\n", s.errMsg)
	}
}
