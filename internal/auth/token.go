package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	// RememberMeTTL is the lifetime of tokens issued at registration or with "remember me".
	RememberMeTTL = 7 * 24 * time.Hour
	// SessionTTL is the lifetime of tokens issued at login without "remember me".
	SessionTTL = 24 * time.Hour
)

var (
	ErrMissingSecret = errors.New("token signing secret is not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

// Claims is the identity asserted by a verified token.
type Claims struct {
	UserID    uint
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService builds a TokenService. An empty secret is rejected so the
// process can fail at startup instead of signing with a blank key.
func NewTokenService(secret string) (*TokenService, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, ErrMissingSecret
	}
	return &TokenService{secret: []byte(trimmed), now: time.Now}, nil
}

// WithClock overrides the time source, for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	if now != nil {
		s.now = now
	}
	return s
}

// Issue signs a token for the user valid for ttl.
func (s *TokenService) Issue(userID uint, email string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = RememberMeTTL
	}
	issuedAt := s.now()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature, expiry and structure. Every failure is reported as ErrInvalidToken.
func (s *TokenService) Verify(raw string) (Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return Claims{}, ErrInvalidToken
	}

	claims := &tokenClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	// Expiry is checked against the service clock rather than jwt.TimeFunc.
	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return Claims{}, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return Claims{}, ErrInvalidToken
	}

	result := Claims{
		UserID:    uint(userID),
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	return result, nil
}
