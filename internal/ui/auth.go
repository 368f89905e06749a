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

const minPasswordLen = 6

type AuthMode int

const (
	ModeLogin AuthMode = iota
	ModeRegister
)

// AuthScreen handles the login and register forms. On success it hands
// the token up to the controller; the screen never touches the session
// store itself.
type AuthScreen struct {
	Client *api.Client
	Ctrl   *Controller
	Log    zerolog.Logger

	mode   AuthMode
	errMsg string
}

func NewAuthScreen(client *api.Client, ctrl *Controller, log zerolog.Logger) *AuthScreen {
	return &AuthScreen{Client: client, Ctrl: ctrl, Log: log}
}

func (s *AuthScreen) SetMode(m AuthMode) {
	s.mode = m
	s.errMsg = ""
}

func (s *AuthScreen) Mode() AuthMode { return s.mode }

// Login exchanges credentials for a token and signals the controller.
func (s *AuthScreen) Login(ctx context.Context, username, password string) error {
	s.errMsg = ""
	if err := s.validate("", username, password, true); err != nil {
		s.errMsg = err.Error()
		return err
	}

	tok, err := s.Client.Login(ctx, username, password)
	if err != nil {
		s.errMsg = s.failureMessage(err, "Login failed. Please check your credentials.")
		return err
	}
	s.Ctrl.LoginSuccess(tok.AccessToken)
	s.Log.Info().Str("username", username).Msg("logged in")
	return nil
}

// Register creates the account and then logs in with the same
// credentials, so a successful registration lands directly on the
// products view.
func (s *AuthScreen) Register(ctx context.Context, email, username, password, fullName string) error {
	s.errMsg = ""
	if err := s.validate(email, username, password, false); err != nil {
		s.errMsg = err.Error()
		return err
	}

	_, err := s.Client.Register(ctx, models.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
		FullName: fullName,
	})
	if err != nil {
		s.errMsg = s.failureMessage(err, "Registration failed. Please try again.")
		return err
	}

	tok, err := s.Client.Login(ctx, username, password)
	if err != nil {
		s.errMsg = s.failureMessage(err, "Registration failed. Please try again.")
		return err
	}
	s.Ctrl.LoginSuccess(tok.AccessToken)
	s.Log.Info().Str("username", username).Msg("registered and logged in")
	return nil
}

func (s *AuthScreen) validate(email, username, password string, login bool) error {
	if !login && email == "" {
		return errors.New("email is required")
	}
	if username == "" {
		return errors.New("username is required")
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	return nil
}

func (s *AuthScreen) failureMessage(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

func (s *AuthScreen) ErrorMessage() string { return s.errMsg }

func (s *AuthScreen) Render(w io.Writer) {
	fmt.Fprintln(w, "E-Commerce Store")
	if s.mode == ModeLogin {
		fmt.Fprintln(w, "Login: login <username> <password>   (or 'mode register')")
	} else {
		fmt.Fprintln(w, "Register: register <email> <username> <password> [full name]   (or 'mode login')")
	}
	if s.errMsg != "" {
		fmt.Fprintf(w, "Error: %s\n", s.errMsg)
	}
}
