package auth

import (
	"testing"
	"time"

	"github.com/erp/stockledger/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "test-issuer",
		AccessTokenExpiration: 15 * time.Minute,
	})
}

func newTestInput() TokenInput {
	return TokenInput{
		TenantID:     uuid.New(),
		UserID:       uuid.New(),
		Username:     "storekeeper",
		Capabilities: []string{"view_receipt", "add_receipt"},
	}
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:                "test-secret",
		Issuer:                "test-issuer",
		AccessTokenExpiration: 15 * time.Minute,
	}

	svc := NewJWTService(cfg)

	assert.Equal(t, []byte(cfg.Secret), svc.secret)
	assert.Equal(t, cfg.AccessTokenExpiration, svc.expiration)
	assert.Equal(t, cfg.Issuer, svc.issuer)
}

func TestGenerateAccessToken(t *testing.T) {
	svc := newTestJWTService()

	token, expiresAt, err := svc.GenerateAccessToken(newTestInput())

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
}

func TestValidateAccessToken_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, _, err := svc.GenerateAccessToken(input)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)

	require.NoError(t, err)
	assert.Equal(t, input.TenantID, claims.TenantUUID())
	assert.Equal(t, input.UserID, claims.UserUUID())
	assert.Equal(t, input.Username, claims.Username)
	assert.Equal(t, input.Capabilities, claims.Capabilities)
	assert.NotEmpty(t, claims.ID)
	assert.False(t, claims.Superuser)
}

func TestValidateAccessToken_ExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "test-issuer",
		AccessTokenExpiration: -1 * time.Hour,
	})

	token, _, err := svc.GenerateAccessToken(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessToken_InvalidToken(t *testing.T) {
	_, err := newTestJWTService().ValidateAccessToken("invalid-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_DifferentSecret(t *testing.T) {
	token, _, err := newTestJWTService().GenerateAccessToken(newTestInput())
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:                "another-secret-key-at-least-32-chars",
		Issuer:                "test-issuer",
		AccessTokenExpiration: 15 * time.Minute,
	})
	_, err = other.ValidateAccessToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_WrongIssuer(t *testing.T) {
	token, _, err := newTestJWTService().GenerateAccessToken(newTestInput())
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "someone-else",
		AccessTokenExpiration: 15 * time.Minute,
	})
	_, err = other.ValidateAccessToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_RequiresTenant(t *testing.T) {
	svc := newTestJWTService()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: uuid.New().String(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrMissingTenantID)

	claims.TenantID = "not-a-uuid"
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestClaims_Can(t *testing.T) {
	claims := &Claims{Capabilities: []string{"view_invoice", "add_invoice"}}

	assert.True(t, claims.Can("add_invoice"))
	assert.False(t, claims.Can("delete_invoice"))

	claims.Superuser = true
	assert.True(t, claims.Can("delete_invoice"))
}

func TestClaims_RemainingTTL(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	claims := &Claims{}
	assert.Zero(t, claims.RemainingTTL(now))

	claims.ExpiresAt = jwt.NewNumericDate(now.Add(10 * time.Minute))
	assert.Equal(t, 10*time.Minute, claims.RemainingTTL(now))
	assert.Zero(t, claims.RemainingTTL(now.Add(time.Hour)))
}
