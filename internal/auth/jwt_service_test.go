package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := uuid.New().String()

	token, err := service.Generate(userID, "test@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)

	// Expiry is fixed at one hour from issuance.
	remaining := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, TokenExpiry.Seconds(), remaining.Seconds(), 5)
}

func TestJWTService_Validate_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").Generate(uuid.New().String(), "a@x.com", "user")
	require.NoError(t, err)

	claims, err := NewJWTService("secret-b").Validate(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_Validate_Expired(t *testing.T) {
	secret := "test-secret"
	expired := &Claims{
		UserID: uuid.New().String(),
		Email:  "a@x.com",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte(secret))
	require.NoError(t, err)

	claims, err := NewJWTService(secret).Validate(tokenString)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_Validate_Garbage(t *testing.T) {
	claims, err := NewJWTService("test-secret").Validate("not-a-token")
	assert.Error(t, err)
	assert.Nil(t, claims)
}
