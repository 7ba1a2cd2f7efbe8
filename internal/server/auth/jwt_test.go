package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelkers/carwash/internal/common"
	"github.com/avelkers/carwash/internal/server/config"
	"github.com/avelkers/carwash/internal/server/models"
)

func newTestCodec(accessTTL, refreshTTL time.Duration) *Codec {
	return NewCodec(&config.Config{
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  accessTTL,
		RefreshTokenValidityDuration: refreshTTL,
	})
}

func TestIssueAccess_RoundTrip(t *testing.T) {
	c := newTestCodec(time.Minute, time.Hour)

	token, err := c.IssueAccess("42", models.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, TypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssueRefresh_CarriesJTI(t *testing.T) {
	c := newTestCodec(time.Minute, time.Hour)

	jti := NewJTI()
	token, err := c.IssueRefresh("7", jti)
	require.NoError(t, err)

	claims, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, TypeRefresh, claims.TokenType)
	assert.Empty(t, claims.Role)
}

func TestNewJTI_Unique(t *testing.T) {
	assert.NotEqual(t, NewJTI(), NewJTI())
}

func TestDecode_WrongSecret(t *testing.T) {
	c := newTestCodec(time.Minute, time.Hour)
	other := NewCodec(&config.Config{
		SecretKey:                    "other-secret",
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: time.Hour,
	})

	token, err := c.IssueAccess("1", models.RoleUser)
	require.NoError(t, err)

	_, err = other.Decode(token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestDecode_Expired(t *testing.T) {
	c := newTestCodec(-time.Minute, -time.Minute)

	token, err := c.IssueRefresh("1", NewJTI())
	require.NoError(t, err)

	_, err = c.Decode(token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestDecode_Malformed(t *testing.T) {
	c := newTestCodec(time.Minute, time.Hour)

	_, err := c.Decode("not.a.token")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestDecode_RejectsUnexpectedAlg(t *testing.T) {
	c := newTestCodec(time.Minute, time.Hour)

	// "none" tokens must never validate even with the right claim shape.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{TokenType: TypeRefresh})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = c.Decode(token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
