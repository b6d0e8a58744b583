package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the identity provider's token this service
// trusts: a role plus the role-specific identity field.
type Claims struct {
	Role    string `json:"role"`
	Phone   string `json:"phone,omitempty"`
	RiderID string `json:"rider_id,omitempty"`
	jwt.RegisteredClaims
}

const (
	RoleAdmin    = "admin"
	RoleRider    = "rider"
	RoleCustomer = "customer"
)

var ErrInvalidToken = errors.New("invalid token")

// ParseToken verifies an HMAC-signed bearer token and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, new(Claims), func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	switch claims.Role {
	case RoleAdmin, RoleRider, RoleCustomer:
	default:
		return nil, fmt.Errorf("unknown role claim %q", claims.Role)
	}
	if claims.Role == RoleRider && claims.RiderID == "" {
		return nil, errors.New("rider token missing rider_id claim")
	}
	return claims, nil
}
