package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails parsing or validation.
var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	// Action binds a nonce to the form it was issued for; empty for session tokens.
	Action string `json:"act,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens and form nonces with one HMAC secret.
type Manager struct {
	secret   []byte
	tokenTTL time.Duration
	nonceTTL time.Duration
	now      func() time.Time
}

// NewManager creates a Manager. Session tokens live for tokenTTL, nonces for nonceTTL.
func NewManager(secret string, tokenTTL, nonceTTL time.Duration) *Manager {
	return &Manager{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		nonceTTL: nonceTTL,
		now:      time.Now,
	}
}

// GenerateToken creates a new session JWT for a given user ID.
func (m *Manager) GenerateToken(userID uint) (string, error) {
	return m.sign("", userID, m.tokenTTL)
}

// ParseToken validates a session token and returns its user ID.
func (m *Manager) ParseToken(tokenString string) (uint, error) {
	c, err := m.parse(tokenString)
	if err != nil {
		return 0, err
	}
	if c.Action != "" {
		return 0, fmt.Errorf("%w: nonce used as session token", ErrInvalidToken)
	}
	return subjectID(c)
}

// GenerateNonce creates an anti-forgery token valid for one action of one user.
func (m *Manager) GenerateNonce(action string, userID uint) (string, error) {
	if action == "" {
		return "", errors.New("nonce action must not be empty")
	}
	return m.sign(action, userID, m.nonceTTL)
}

// VerifyNonce reports whether nonce was issued by this manager for action and userID
// and has not expired.
func (m *Manager) VerifyNonce(nonce, action string, userID uint) bool {
	if nonce == "" || action == "" {
		return false
	}
	c, err := m.parse(nonce)
	if err != nil || c.Action != action {
		return false
	}
	id, err := subjectID(c)
	return err == nil && id == userID
}

func (m *Manager) sign(action string, userID uint, ttl time.Duration) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(m.secret)
}

func (m *Manager) parse(tokenString string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &c, nil
}

func subjectID(c *claims) (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return uint(id), nil
}

// TokenTTL returns how long session tokens stay valid.
func (m *Manager) TokenTTL() time.Duration {
	return m.tokenTTL
}
