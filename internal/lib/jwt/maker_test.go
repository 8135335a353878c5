package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndParseToken(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewMaker(secretKey, tokenTTL)

	tests := []struct {
		name    string
		userUID string
		email   string
	}{
		{
			name:    "plain account",
			userUID: "6f1a2b3c-0000-0000-0000-000000000001",
			email:   "farmer@test.com",
		},
		{
			name:    "upper case preserved in claim",
			userUID: "6f1a2b3c-0000-0000-0000-000000000002",
			email:   "Maria.Silva@fazenda.com.br",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userUID, tt.email)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.userUID, claims.UserUID)
			assert.Equal(t, tt.email, claims.Email)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewMaker(secretKey, 15*time.Minute)

	validToken, err := maker.GenerateToken("uid-1", "farmer@test.com")
	require.NoError(t, err)

	expiredMaker := NewMaker(secretKey, -time.Hour)
	expiredToken, err := expiredMaker.GenerateToken("uid-1", "farmer@test.com")
	require.NoError(t, err)

	otherMaker := NewMaker("another_secret_key", 15*time.Minute)
	foreignToken, err := otherMaker.GenerateToken("uid-1", "farmer@test.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: expiredToken},
		{name: "wrong secret key", token: foreignToken},
		{name: "tampered token", token: validToken + "tampered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
