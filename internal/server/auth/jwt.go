// Package auth implements the token codec: issuing and validating the
// signed claim bundles exchanged with clients. Validation here is purely
// cryptographic and temporal; session state lives in the sessions repository.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/avelkers/carwash/internal/common"
	"github.com/avelkers/carwash/internal/server/config"
	"github.com/avelkers/carwash/internal/server/models"
)

const (
	// TypeAccess and TypeRefresh tag the two token kinds in the "type" claim.
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is the claim set carried by both token kinds. Role is set only on
// access tokens. The jti lives in RegisteredClaims.ID and, for refresh
// tokens, keys the durable session row.
type Claims struct {
	jwt.RegisteredClaims
	Role      string `json:"role,omitempty"`
	TokenType string `json:"type"`
}

// Codec signs and verifies tokens with a server-held HS256 secret.
// Lifetimes are fixed at construction from the server config.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec constructs a Codec from server config.
func NewCodec(cfg *config.Config) *Codec {
	return &Codec{
		secret:     []byte(cfg.SecretKey),
		accessTTL:  cfg.AccessTokenValidityDuration,
		refreshTTL: cfg.RefreshTokenValidityDuration,
	}
}

// RefreshTTL returns the configured refresh token lifetime. The service uses
// it to stamp expires_at on the persisted session row.
func (c *Codec) RefreshTTL() time.Duration {
	return c.refreshTTL
}

// NewJTI returns a fresh unique token identifier.
func NewJTI() string {
	return uuid.NewString()
}

// IssueAccess mints a short-lived access token for the user, embedding the
// role as a snapshot valid until expiry.
func (c *Codec) IssueAccess(userID string, role models.Role) (string, error) {
	return c.sign(Claims{
		RegisteredClaims: c.registered(userID, NewJTI(), c.accessTTL),
		Role:             string(role),
		TokenType:        TypeAccess,
	})
}

// IssueRefresh mints a refresh token carrying the caller-supplied jti, so the
// session row can be persisted alongside token creation.
func (c *Codec) IssueRefresh(userID string, jti string) (string, error) {
	return c.sign(Claims{
		RegisteredClaims: c.registered(userID, jti, c.refreshTTL),
		TokenType:        TypeRefresh,
	})
}

// Decode verifies signature and expiry and returns the claims. Any failure
// (bad signature, malformed payload, wrong algorithm, expired) collapses to
// common.ErrInvalidToken.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Join(common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

func (c *Codec) registered(userID, jti string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   userID,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (c *Codec) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}
