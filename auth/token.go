package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/allamaprabhu/management-api/models"
)

// DefaultTokenTTL is the lifetime of an issued session token
const DefaultTokenTTL = 10 * time.Hour

var (
	// ErrExpiredToken is returned when the token is past its expiry
	ErrExpiredToken = errors.New("token expired")

	// ErrMalformedToken is returned for bad signatures, structure, algorithm or claims
	ErrMalformedToken = errors.New("malformed token")

	// ErrEmptySecret is returned when a codec is built without a signing secret
	ErrEmptySecret = errors.New("token signing secret is empty")
)

// Claims is the wire form of a session token
type Claims struct {
	AdminID string `json:"admin_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// TokenClaims represents parsed and validated claims
type TokenClaims struct {
	AdminID   uuid.UUID
	Role      models.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec issues and verifies HS256 session tokens
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption configures a TokenCodec
type TokenOption func(*TokenCodec)

// WithClock overrides the time source used for issuing and verifying tokens
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec creates a codec signing with secret. A zero ttl selects DefaultTokenTTL.
func NewTokenCodec(secret []byte, ttl time.Duration, opts ...TokenOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	c := &TokenCodec{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the lifetime of issued tokens
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the given admin and role
func (c *TokenCodec) Issue(adminID uuid.UUID, role models.Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("cannot issue token for invalid role %q", role)
	}

	now := c.now()
	claims := Claims{
		AdminID: adminID.String(),
		Role:    role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token and returns its claims
func (c *TokenCodec) Verify(tokenString string) (*TokenClaims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if !token.Valid {
		return nil, ErrMalformedToken
	}

	return parseClaims(claims)
}

// parseClaims converts Claims to TokenClaims with proper type conversions
func parseClaims(claims *Claims) (*TokenClaims, error) {
	adminID, err := uuid.Parse(claims.AdminID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid admin_id: %v", ErrMalformedToken, err)
	}

	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return nil, fmt.Errorf("%w: invalid role %q", ErrMalformedToken, claims.Role)
	}

	parsed := &TokenClaims{
		AdminID: adminID,
		Role:    role,
	}
	if claims.IssuedAt != nil {
		parsed.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		parsed.ExpiresAt = claims.ExpiresAt.Time
	}
	return parsed, nil
}
