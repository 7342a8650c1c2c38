package identity

import (
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Claim aliases seen across the lending API's token issuers. Later entries
// are only consulted when earlier ones are absent.
var (
	idClaims   = []string{"id", "sub", "userId", "nameid"}
	nameClaims = []string{"nombre", "name", "unique_name", "given_name"}
	mailClaims = []string{"email", "unique_name", "upn"}
	roleClaims = []string{"rol", "role", "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"}
)

// DecodeClaims reads the payload segment of a compact JWT without verifying
// the signature. Validation is the lending API's job; the console only needs
// the identity claims.
func DecodeClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, "decode token claims")
	}
	return claims, nil
}

func firstString(claims jwt.MapClaims, keys []string) string {
	for _, k := range keys {
		if v, ok := claims[k]; ok {
			if s := cast.ToString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstInt(claims jwt.MapClaims, keys []string) int {
	for _, k := range keys {
		if v, ok := claims[k]; ok {
			if n := cast.ToInt(v); n != 0 {
				return n
			}
		}
	}
	return 0
}
