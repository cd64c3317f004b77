package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/honeynil/KeecashLedger/internal/models"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
)

// Claims is the bearer token payload; the principal fields sit at the top level.
type Claims struct {
	models.Principal
	jwt.RegisteredClaims
}

// SessionKey is where the live token of a user is kept. A token that no
// longer matches it has been revoked.
func SessionKey(userID int64) string {
	return fmt.Sprintf("user:%d:token", userID)
}

func IssueToken(secret []byte, p models.Principal, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("JWT secret not set")
	}
	now := time.Now()
	claims := Claims{
		Principal: p,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func ParseToken(secret []byte, tokenStr string) (*models.Principal, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method.Alg())
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrInvalidToken, err)
	}
	if claims.UserID <= 0 {
		return nil, fmt.Errorf("%w: missing user_id", pkgerrors.ErrInvalidToken)
	}
	return &claims.Principal, nil
}
