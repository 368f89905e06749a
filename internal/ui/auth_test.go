package ui

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthScreen(t *testing.T) (*AuthScreen, *Controller, *memStore) {
	t.Helper()
	store := &memStore{}
	ctrl := NewController(store, zerolog.Nop())
	require.NoError(t, ctrl.Start())
	client := newScreenClient(t, &backendOpts{})
	client.Token = ctrl.Token
	return NewAuthScreen(client, ctrl, zerolog.Nop()), ctrl, store
}

func TestLoginTransitionsToProducts(t *testing.T) {
	s, ctrl, store := newTestAuthScreen(t)

	require.NoError(t, s.Login(context.Background(), "u1", "secret1"))
	assert.True(t, ctrl.Authenticated())
	assert.Equal(t, ViewProducts, ctrl.View())
	assert.Equal(t, "tok-abc", store.token, "token persisted")
}

func TestLoginBadCredentialsShowsDetail(t *testing.T) {
	s, ctrl, _ := newTestAuthScreen(t)

	require.Error(t, s.Login(context.Background(), "u1", "wrong-pass"))
	assert.False(t, ctrl.Authenticated())
	assert.Equal(t, "Incorrect username or password", s.ErrorMessage())
}

func TestLoginShortPasswordRejectedClientSide(t *testing.T) {
	s, ctrl, _ := newTestAuthScreen(t)

	require.Error(t, s.Login(context.Background(), "u1", "abc"))
	assert.False(t, ctrl.Authenticated())
	assert.Contains(t, s.ErrorMessage(), "at least 6 characters")
}

func TestRegisterAutoLogsIn(t *testing.T) {
	s, ctrl, store := newTestAuthScreen(t)

	// Short usernames are the backend's call, not the client's; "u1"
	// must reach the register endpoint and land on the products view.
	require.NoError(t, s.Register(context.Background(), "a@b.com", "u1", "secret1", ""))
	assert.True(t, ctrl.Authenticated())
	assert.Equal(t, ViewProducts, ctrl.View())
	assert.Equal(t, "tok-abc", store.token)
}

func TestRegisterRequiresEmail(t *testing.T) {
	s, ctrl, _ := newTestAuthScreen(t)

	require.Error(t, s.Register(context.Background(), "", "u1", "secret1", ""))
	assert.False(t, ctrl.Authenticated())
	assert.Equal(t, "email is required", s.ErrorMessage())
}

func TestModeSwitchClearsError(t *testing.T) {
	s, _, _ := newTestAuthScreen(t)

	_ = s.Login(context.Background(), "u1", "abc")
	require.NotEmpty(t, s.ErrorMessage())

	s.SetMode(ModeRegister)
	assert.Empty(t, s.ErrorMessage())
	assert.Equal(t, ModeRegister, s.Mode())
}
