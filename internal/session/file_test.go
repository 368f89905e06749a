package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-storefront/internal/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return NewFileStore(path, zerolog.Nop())
}

func sampleCart() []models.CartItem {
	return []models.CartItem{
		{Product: models.Product{ID: 1, Name: "Keyboard", Price: 49.90, Stock: 5}, Quantity: 2},
		{Product: models.Product{ID: 2, Name: "Mouse", Price: 19.99, Stock: 3}, Quantity: 1},
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)

	sess, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, sess.Token)
	assert.Empty(t, sess.Cart)
	assert.NotNil(t, sess.Cart)
}

func TestCartRoundTrip(t *testing.T) {
	s := newTestStore(t)
	cart := sampleCart()

	require.NoError(t, s.SaveCart(cart))

	sess, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, cart, sess.Cart)
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveToken("tok-123"))

	sess, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", sess.Token)

	require.NoError(t, s.ClearToken())
	sess, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, sess.Token)
}

func TestTokenSurvivesCartWrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveToken("tok-123"))
	require.NoError(t, s.SaveCart(sampleCart()))
	require.NoError(t, s.ClearCart())

	sess, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", sess.Token)
	assert.Empty(t, sess.Cart)
}

func TestCorruptedFileLoadsEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path, []byte("{not json"), 0o600))

	sess, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, sess.Token)
	assert.Empty(t, sess.Cart)
}

func TestCorruptedCartLoadsEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path, []byte(`{"access_token":"tok-123","cart":{"bogus":true}}`), 0o600))

	sess, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", sess.Token)
	assert.Empty(t, sess.Cart)
}

func TestClearCartKeepsFileUsable(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveCart(sampleCart()))
	require.NoError(t, s.ClearCart())
	require.NoError(t, s.SaveCart(sampleCart()[:1]))

	sess, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, sess.Cart, 1)
}
