package jwt

import (
	"time"
)

// Maker describes the contract for issuing and parsing session tokens.
type Maker interface {
	// GenerateToken issues a token for the given account id and email.
	GenerateToken(userUID, email string) (string, error)
	// ParseToken returns the *SessionClaims carried by a valid token.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl implements Maker with an HS256 secret key and a token lifetime.
type MakerImpl struct {
	secretKey string        // signing secret
	tokenTTL  time.Duration // token lifetime
}

// NewMaker builds a MakerImpl from the secret key and TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
