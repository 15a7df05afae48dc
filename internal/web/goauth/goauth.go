// Package goauth drives the Google OAuth2 login handshake. It produces the
// provider redirect, validates the state round trip, and resolves the
// callback to a stable external subject id. What happens to that subject id
// is the caller's business.
package goauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const stateCookieName = "oauthstate"

// ErrStateMismatch is returned when the callback state does not match the
// nonce issued at the start of the handshake.
var ErrStateMismatch = errors.New("goauth: state mismatch")

type Service struct {
	config *oauth2.Config
}

func NewService(clientID, clientSecret, callbackURL string) (*Service, error) {
	if clientID == "" || clientSecret == "" || callbackURL == "" {
		return nil, errors.New("goauth: client id, client secret and callback URL are required")
	}

	return &Service{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{goauth2.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
	}, nil
}

// Begin issues the state nonce cookie and returns the provider URL to
// redirect the browser to.
func (s *Service) Begin(w http.ResponseWriter) string {
	state := newStateNonce()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   300, // the handshake should take seconds, not minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s.config.AuthCodeURL(state)
}

// Complete validates the callback against the state cookie, exchanges the
// authorization code, and returns the provider's stable subject id.
func (s *Service) Complete(ctx context.Context, r *http.Request, w http.ResponseWriter) (string, error) {
	defer clearStateCookie(w)

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" {
		return "", ErrStateMismatch
	}
	if r.FormValue("state") != stateCookie.Value {
		return "", ErrStateMismatch
	}

	code := r.FormValue("code")
	if code == "" {
		return "", errors.New("goauth: callback carried no authorization code")
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("goauth: code exchange failed: %w", err)
	}

	return s.fetchSubject(ctx, token)
}

// fetchSubject asks Google's userinfo endpoint for the profile belonging to
// the token and extracts the subject id.
func (s *Service) fetchSubject(ctx context.Context, token *oauth2.Token) (string, error) {
	svc, err := goauth2.NewService(ctx, option.WithTokenSource(s.config.TokenSource(ctx, token)))
	if err != nil {
		return "", fmt.Errorf("goauth: building userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("goauth: fetching userinfo: %w", err)
	}
	if info.Id == "" {
		return "", errors.New("goauth: provider returned no subject id")
	}
	return info.Id, nil
}

func newStateNonce() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b) // crypto/rand.Read does not fail on supported platforms
	return base64.URLEncoding.EncodeToString(b)
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:    stateCookieName,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	})
}
