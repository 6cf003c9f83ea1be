package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

// ErrInvalidToken is returned when a bearer token can't be turned into a scope.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carrying a caller scope.
type Claims struct {
	jwt.StandardClaims
	ProjectID string `json:"project_id,omitempty"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
}

// Tokens issues and parses HS256 scope tokens.
type Tokens struct {
	secret []byte
}

// NewTokens returns a Tokens signing with secret.
func NewTokens(secret string) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	return &Tokens{secret: []byte(secret)}, nil
}

// Issue returns a signed token for s valid for ttl. A zero ttl never expires.
func (t *Tokens) Issue(s Scope, ttl time.Duration) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	claims := Claims{
		StandardClaims: jwt.StandardClaims{IssuedAt: time.Now().Unix()},
		ProjectID:      s.ProjectID,
		IsAdmin:        s.IsAdmin,
	}
	if ttl > 0 {
		claims.ExpiresAt = time.Now().Add(ttl).Unix()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %s", err)
	}
	return signed, nil
}

// Parse validates a raw token and returns its scope.
func (t *Tokens) Parse(raw string) (Scope, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %s", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return Scope{}, fmt.Errorf("parsing token: %s: %w", err, ErrInvalidToken)
	}
	s := Scope{IsAdmin: claims.IsAdmin, ProjectID: claims.ProjectID}
	if err := s.Validate(); err != nil {
		return Scope{}, fmt.Errorf("%s: %w", err, ErrInvalidToken)
	}
	return s, nil
}

// ParseBearer extracts and parses the token of an Authorization header value.
func (t *Tokens) ParseBearer(header string) (Scope, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return Scope{}, fmt.Errorf("malformed authorization header: %w", ErrInvalidToken)
	}
	return t.Parse(parts[1])
}
