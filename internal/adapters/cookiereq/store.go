// Package cookiereq persists the in-flight OAuth2 authorization request in a
// signed cookie so the round trip to the identity provider works across
// process instances without server-side affinity. The payload is
// integrity-protected with HMAC-SHA256 and time-bounded; a corrupt, expired,
// or absent cookie reads back as ErrNoRequest so a login simply restarts.
package cookiereq

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/smartsupplypro/inventory-api/internal/domain/auth"
)

const (
	// AuthRequestCookie carries the signed authorization request.
	AuthRequestCookie = "SSP_AUTH_REQUEST"
	// ReturnTargetCookie carries the optional one-shot post-login redirect
	// override.
	ReturnTargetCookie = "SSP_RETURN"

	// CookiePath scopes both cookies to the provider callback routes.
	CookiePath = "/login/oauth2"

	defaultTTL = 3 * time.Minute
)

// ErrNoRequest is returned by Load when no valid authorization request is in
// flight: the cookie is absent, expired, or fails signature verification.
var ErrNoRequest = errors.New("no authorization request in flight")

// Config holds Store construction parameters.
type Config struct {
	// Secret keys the HMAC. Required; rotating it invalidates in-flight logins.
	Secret []byte
	// TTL bounds the authorization round trip. Defaults to 3 minutes.
	TTL time.Duration
}

// Store signs, saves, loads, and clears the authorization-request cookie.
// It holds no per-request state and is safe for concurrent use.
type Store struct {
	secret []byte
	ttl    time.Duration

	now func() time.Time // injectable clock for tests
}

// New constructs a Store. The secret must be non-empty.
func New(cfg Config) (*Store, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("cookie secret is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{secret: cfg.Secret, ttl: ttl, now: time.Now}, nil
}

// TTL returns the configured round-trip bound.
func (s *Store) TTL() time.Duration { return s.ttl }

// Save serializes the authorization request, signs it, and writes the cookie.
// The request's expiry is stamped from the store TTL. Secure is always set:
// SameSite=None cookies are rejected by browsers without it.
func (s *Store) Save(w http.ResponseWriter, req domainauth.AuthRequest) error {
	req.ExpiresAt = s.now().Add(s.ttl)

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal authorization request: %w", err)
	}
	value := s.encode(payload)

	http.SetCookie(w, &http.Cookie{
		Name:     AuthRequestCookie,
		Value:    value,
		Path:     CookiePath,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return nil
}

// Load verifies and decodes the authorization request from the incoming
// request. Any failure reads as ErrNoRequest; callers abort the login cleanly
// rather than surfacing a decode error.
func (s *Store) Load(r *http.Request) (domainauth.AuthRequest, error) {
	cookie, err := r.Cookie(AuthRequestCookie)
	if err != nil {
		return domainauth.AuthRequest{}, ErrNoRequest
	}

	payload, ok := s.decode(cookie.Value)
	if !ok {
		return domainauth.AuthRequest{}, ErrNoRequest
	}

	var req domainauth.AuthRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return domainauth.AuthRequest{}, ErrNoRequest
	}
	if req.ExpiresAt.IsZero() || req.Expired(s.now()) {
		return domainauth.AuthRequest{}, ErrNoRequest
	}
	return req, nil
}

// Clear expires the authorization-request cookie. The stored request is
// single-use: callers clear it as soon as it has been consumed.
func (s *Store) Clear(w http.ResponseWriter) {
	expireCookie(w, AuthRequestCookie, CookiePath)
}

// SaveReturnTarget stores the caller-requested post-login destination.
// Origin allow-listing happens before this call; the store only handles
// transport.
func (s *Store) SaveReturnTarget(w http.ResponseWriter, target string) {
	http.SetCookie(w, &http.Cookie{
		Name:     ReturnTargetCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(target)),
		Path:     CookiePath,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
}

// LoadReturnTarget returns the stored return target, if any.
func (s *Store) LoadReturnTarget(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(ReturnTargetCookie)
	if err != nil {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil || len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}

// ClearReturnTarget expires the return-target cookie after its one redirect.
func (s *Store) ClearReturnTarget(w http.ResponseWriter) {
	expireCookie(w, ReturnTargetCookie, CookiePath)
}

// encode produces payload.signature, both base64url without padding.
func (s *Store) encode(payload []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	sig := mac.Sum(nil)
	return base64.RawURLEncoding.EncodeToString(payload) + "." + base64.RawURLEncoding.EncodeToString(sig)
}

// decode verifies the signature and returns the payload bytes.
func (s *Store) decode(value string) ([]byte, bool) {
	encodedPayload, encodedSig, found := strings.Cut(value, ".")
	if !found {
		return nil, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return nil, false
	}
	sig, err := base64.RawURLEncoding.DecodeString(encodedSig)
	if err != nil {
		return nil, false
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, false
	}
	return payload, true
}

func expireCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}
