// Package session persists the auth token and the serialized cart across
// process restarts. The store is a mirror of in-memory state, never the
// source of truth: the controller overwrites it on every mutation.
package session

import (
	"ecommerce-storefront/internal/models"
)

// Session is what a store hands back on load. Token is empty when no one
// is logged in; Cart is never nil.
type Session struct {
	Token string
	Cart  []models.CartItem
}

// Store is the persistence contract. A malformed persisted cart must be
// swallowed (logged, returned as an empty cart), not surfaced as an error.
type Store interface {
	Load() (Session, error)
	SaveToken(token string) error
	ClearToken() error
	SaveCart(cart []models.CartItem) error
	ClearCart() error
}
