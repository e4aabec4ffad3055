// Package token issues and verifies the jwt session tokens handed to
// clients in AuthSuccess, so a reconnecting client can resume without a
// password round-trip.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type SessionToken struct {
	UserID uuid.UUID `json:"userID"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret   []byte
	lifetime time.Duration
}

func NewIssuer(secret string, lifetime time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), lifetime: lifetime}
}

func (i *Issuer) Create(userID uuid.UUID) (string, error) {
	now := time.Now().UTC()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, SessionToken{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
		},
	})

	return tok.SignedString(i.secret)
}

func (i *Issuer) Verify(tokenString string) (SessionToken, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &SessionToken{}, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		return SessionToken{}, err
	}

	claims, ok := tok.Claims.(*SessionToken)
	if !ok {
		return SessionToken{}, errors.New("invalid token")
	}
	if claims.ExpiresAt != nil && time.Now().UTC().After(claims.ExpiresAt.UTC()) {
		return SessionToken{}, errors.New("token expired")
	}
	return *claims, nil
}
