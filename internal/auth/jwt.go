// Package auth is the authorization collaborator the engine consumes: it
// turns credentials into a caller role (admin or faculty) that the engine's
// rules are applied against.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	. "door-command-control/internal/config"
	"door-command-control/internal/storage"
)

var (
	ErrNonValidToken    = errors.New("token did not pass validation")
	ErrInvalidClaimType = errors.New("invalid claim type")
)

var tokenSignatureAlg = jwt.SigningMethodHS256

// UserClaim identifies an authenticated admin or faculty caller.
type UserClaim struct {
	UserID int64        `json:"user_id"`
	Role   storage.Role `json:"role"`
	jwt.RegisteredClaims
}

func NewUserClaim(userID int64, role storage.Role) UserClaim {
	ttl := time.Duration(Cfg.TokenTTL) * time.Hour
	now := time.Now().UTC()
	return UserClaim{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// Generic JWT token generation function
func GenerateJWT(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(tokenSignatureAlg, claims)
	JWTSecret := []byte(Cfg.Secret)
	return token.SignedString(JWTSecret)
}

func DecodeUserJWT(tokenString string) (*UserClaim, error) {
	return decodeJWT(tokenString, &UserClaim{})
}

func decodeJWT[T jwt.Claims](tokenString string, claimsType T) (T, error) {
	var zero T

	parsedToken, err := jwt.ParseWithClaims(tokenString, claimsType, func(token *jwt.Token) (interface{}, error) {
		JWTSecret := []byte(Cfg.Secret)
		return JWTSecret, nil
	}, jwt.WithValidMethods([]string{tokenSignatureAlg.Alg()}))

	if err != nil {
		return zero, err
	} else if parsedToken == nil || !parsedToken.Valid {
		return zero, ErrNonValidToken
	} else if claims, ok := parsedToken.Claims.(T); ok {
		return claims, nil
	}

	return zero, ErrInvalidClaimType
}
