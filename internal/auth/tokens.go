package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/KOTTAGENVH/courier-service-app/internal/config"
	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
)

// Claims carries the caller's email; role resolution happens against
// the configured admin email, not inside the token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenPair is what login and signup hand back to be set as cookies.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Manager signs and verifies the three token kinds (access, refresh,
// password reset), each with its own secret and lifetime.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	resetSecret   []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	resetTTL      time.Duration
}

func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		accessSecret:  []byte(cfg.JWTAccessSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		resetSecret:   []byte(cfg.JWTResetSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		resetTTL:      cfg.ResetTokenTTL,
	}
}

func (m *Manager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

func (m *Manager) IssueAccess(email string) (string, error) {
	return m.sign(email, m.accessSecret, m.accessTTL)
}

func (m *Manager) IssueRefresh(email string) (string, error) {
	return m.sign(email, m.refreshSecret, m.refreshTTL)
}

func (m *Manager) IssueReset(email string) (string, error) {
	return m.sign(email, m.resetSecret, m.resetTTL)
}

// IssuePair issues access and refresh tokens for the same identity.
func (m *Manager) IssuePair(email string) (TokenPair, error) {
	access, err := m.IssueAccess(email)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.IssueRefresh(email)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *Manager) VerifyAccess(token string) (string, error) {
	return m.verify(token, m.accessSecret)
}

func (m *Manager) VerifyRefresh(token string) (string, error) {
	return m.verify(token, m.refreshSecret)
}

func (m *Manager) VerifyReset(token string) (string, error) {
	return m.verify(token, m.resetSecret)
}

func (m *Manager) sign(email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// verify returns the email inside a valid token. Expiry is reported as
// domain.ErrTokenExpired so the middleware can attempt a refresh; any
// other failure is domain.ErrInvalidToken.
func (m *Manager) verify(token string, secret []byte) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrInvalidToken
	}
	if claims.Email == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Email, nil
}
