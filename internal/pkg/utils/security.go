package utils

import (
	"context"
	"fmt"
	"klinipay-service/internal/pkg/constvars"

	"github.com/golang-jwt/jwt/v4"
)

// ParseBearerToken verifies an HS256 bearer token issued by the clinic shell
// and returns its subject. Token issuance and refresh are the shell's job;
// this service only verifies.
func ParseBearerToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("token claims invalid")
	}

	subject, _ := claims["sub"].(string)
	return subject, nil
}

// ContextWithBearerToken stores the raw credential so outbound clients can
// forward it to the billing and payment backends.
func ContextWithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, constvars.CONTEXT_BEARER_TOKEN_KEY, token)
}

func BearerTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(constvars.CONTEXT_BEARER_TOKEN_KEY).(string)
	return token
}
