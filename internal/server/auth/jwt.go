// Package auth issues and verifies the HS256 JWTs accepted at the HTTP
// boundary. Claims carry the actor's user and organization identity; every
// request is implicitly scoped to both.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/orgvault/orgvault/internal/common"
)

// Claims extends the registered claims with the actor identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	OrgID  string `json:"org"`
}

// GenerateToken signs a token for the given actor, valid for validityDuration.
func GenerateToken(userID, orgID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		OrgID:  orgID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies tokenString and returns its claims. Expired, tampered
// or differently-signed tokens yield common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" || claims.OrgID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
