package services

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/localnerve/reserva/internal/types"
)

// RememberMeLifetime is the session lifetime granted when the login
// form's remember-me box is checked: 14 days.
const RememberMeLifetime = 1209600 * time.Second

// SessionManager issues and validates the signed session tokens carried
// in the session cookie. It is constructed once in main and passed to
// the middleware and handlers that need it.
type SessionManager struct {
	secret []byte
}

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewSessionManager creates a SessionManager with the given signing secret.
func NewSessionManager(secret string) *SessionManager {
	return &SessionManager{secret: []byte(secret)}
}

// Lifetime returns the session lifetime for the remember-me choice.
// Zero means the session ends with the client's usage window (a
// browser-session cookie with no expiry).
func (m *SessionManager) Lifetime(remember bool) time.Duration {
	if remember {
		return RememberMeLifetime
	}
	return 0
}

// Issue signs a session token for the user. The returned expiry is the
// zero time for non-remembered sessions; callers must then write the
// cookie without an Expires attribute.
func (m *SessionManager) Issue(userID, username string, remember bool) (string, time.Time, error) {
	var expires time.Time

	claims := sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	if lifetime := m.Lifetime(remember); lifetime > 0 {
		expires = time.Now().Add(lifetime)
		claims.ExpiresAt = jwt.NewNumericDate(expires)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return token, expires, nil
}

// Parse validates a session token and returns the principal it names.
// Any failure (bad signature, expired, malformed) yields the anonymous
// principal and ErrUnauthenticated.
func (m *SessionManager) Parse(token string) (types.Principal, error) {
	if token == "" {
		return types.Anonymous(), types.ErrUnauthenticated
	}

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return types.Anonymous(), types.ErrUnauthenticated
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return types.Anonymous(), types.ErrUnauthenticated
	}

	return types.AuthenticatedPrincipal(claims.Subject, claims.Username), nil
}
