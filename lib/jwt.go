package lib

import (
	"fmt"
	"macarabia_sync/structs"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ParseAdminToken parses and validates an operator JWT and returns the claims
func ParseAdminToken(tokenStr string, secret string) (*structs.AdminClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid sub claim")
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid role claim")
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid iat claim")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid exp claim")
	}

	return &structs.AdminClaims{
		Sub:  sub,
		Role: role,
		Iat:  int64(iat),
		Exp:  int64(exp),
	}, nil
}

// ExtractAdminClaims pulls the bearer token off the request and validates it
func ExtractAdminClaims(r *http.Request, secret string) (*structs.AdminClaims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, fmt.Errorf("missing authorization header")
	}

	tokenStr, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenStr == "" {
		return nil, fmt.Errorf("malformed authorization header")
	}

	return ParseAdminToken(tokenStr, secret)
}
