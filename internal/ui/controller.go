// Package ui holds the screens of the storefront client and the
// controller that owns their shared state. Rendering is plain text to an
// io.Writer; one user action runs to completion at a time.
package ui

import (
	"github.com/rs/zerolog"

	"ecommerce-storefront/internal/models"
	"ecommerce-storefront/internal/session"
)

type View int

const (
	ViewLogin View = iota
	ViewProducts
	ViewCart
)

func (v View) String() string {
	switch v {
	case ViewProducts:
		return "products"
	case ViewCart:
		return "cart"
	default:
		return "login"
	}
}

// Controller is the single owner of the live cart and the auth flag. The
// session store is a mirror: every mutation writes through to it before
// the call returns, so the persisted copy never lags memory.
type Controller struct {
	Store session.Store
	Log   zerolog.Logger

	authenticated bool
	view          View
	token         string
	cart          []models.CartItem
}

func NewController(store session.Store, log zerolog.Logger) *Controller {
	return &Controller{
		Store: store,
		Log:   log,
		view:  ViewLogin,
		cart:  []models.CartItem{},
	}
}

// Start seeds memory from the persisted session. A stored token resumes
// the authenticated state directly on the products view.
func (c *Controller) Start() error {
	sess, err := c.Store.Load()
	if err != nil {
		return err
	}
	c.token = sess.Token
	c.cart = sess.Cart
	if c.cart == nil {
		c.cart = []models.CartItem{}
	}
	if c.token != "" {
		c.authenticated = true
		c.view = ViewProducts
	}
	return nil
}

func (c *Controller) Authenticated() bool { return c.authenticated }
func (c *Controller) View() View          { return c.view }
func (c *Controller) Token() string       { return c.token }

// LoginSuccess installs the token and enters the products view.
func (c *Controller) LoginSuccess(token string) {
	c.token = token
	c.authenticated = true
	c.view = ViewProducts
	if err := c.Store.SaveToken(token); err != nil {
		c.Log.Warn().Err(err).Msg("persist token failed")
	}
}

// Logout drops the session and the cart, in memory and in the store.
func (c *Controller) Logout() {
	c.token = ""
	c.authenticated = false
	c.view = ViewLogin
	c.cart = []models.CartItem{}
	if err := c.Store.ClearToken(); err != nil {
		c.Log.Warn().Err(err).Msg("clear token failed")
	}
	if err := c.Store.ClearCart(); err != nil {
		c.Log.Warn().Err(err).Msg("clear cart failed")
	}
}

// SessionExpired is the subscriber for the gateway client's 401 signal:
// the token is gone, back to the login screen. The cart survives so a
// re-login can pick it up.
func (c *Controller) SessionExpired() {
	c.token = ""
	c.authenticated = false
	c.view = ViewLogin
	if err := c.Store.ClearToken(); err != nil {
		c.Log.Warn().Err(err).Msg("clear token failed")
	}
}

// SwitchView toggles between the authenticated sub-views. It is a no-op
// when logged out.
func (c *Controller) SwitchView(v View) {
	if !c.authenticated || (v != ViewProducts && v != ViewCart) {
		return
	}
	c.view = v
}

// Cart returns the live cart lines. Callers must not mutate them.
func (c *Controller) Cart() []models.CartItem { return c.cart }

func (c *Controller) CartCount() int { return len(c.cart) }

// CartQuantity reports the quantity of a product in the cart, 0 when absent.
func (c *Controller) CartQuantity(productID int) int {
	for _, it := range c.cart {
		if it.Product.ID == productID {
			return it.Quantity
		}
	}
	return 0
}

// AddToCart inserts the product with quantity 1, or bumps an existing
// line by one. At the stock ceiling the call is a silent no-op.
func (c *Controller) AddToCart(p models.Product) {
	if !c.authenticated {
		return
	}
	for i, it := range c.cart {
		if it.Product.ID == p.ID {
			if it.Quantity < p.Stock {
				c.cart[i].Quantity++
				c.persistCart()
			}
			return
		}
	}
	c.cart = append(c.cart, models.CartItem{Product: p, Quantity: 1})
	c.persistCart()
}

// UpdateQuantity sets a line's quantity, clamped to [1, stock]. Callers
// going through the screen controls never hit the clamp; it guards
// direct calls.
func (c *Controller) UpdateQuantity(productID, qty int) {
	if !c.authenticated {
		return
	}
	for i, it := range c.cart {
		if it.Product.ID != productID {
			continue
		}
		if qty < 1 {
			qty = 1
		}
		if qty > it.Product.Stock {
			qty = it.Product.Stock
		}
		c.cart[i].Quantity = qty
		c.persistCart()
		return
	}
}

func (c *Controller) RemoveItem(productID int) {
	if !c.authenticated {
		return
	}
	for i, it := range c.cart {
		if it.Product.ID == productID {
			c.cart = append(c.cart[:i], c.cart[i+1:]...)
			c.persistCart()
			return
		}
	}
}

func (c *Controller) ClearCart() {
	if !c.authenticated {
		return
	}
	c.cart = []models.CartItem{}
	c.persistCart()
}

func (c *Controller) persistCart() {
	if err := c.Store.SaveCart(c.cart); err != nil {
		c.Log.Warn().Err(err).Msg("persist cart failed")
	}
}
