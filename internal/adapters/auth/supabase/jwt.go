package supabase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"meufenil/internal/ports/auth"
)

// DefaultAudience es el aud que Supabase emite para sesiones de usuario.
const DefaultAudience = "authenticated"

// AccessClaims es el subconjunto del access token de Supabase que usamos.
type AccessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTVerifier valida localmente access tokens HS256 firmados con el JWT secret del proyecto.
type JWTVerifier struct {
	secret   []byte
	audience string
	leeway   time.Duration
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{
		secret:   []byte(strings.TrimSpace(secret)),
		audience: DefaultAudience,
		leeway:   30 * time.Second,
	}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return auth.Claims{}, ErrSupabaseNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthenticated
	}

	parsed, err := jwt.ParseWithClaims(token, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrUnauthenticated, err)
	}

	c, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return auth.Claims{}, auth.ErrUnauthenticated
	}

	sub := strings.TrimSpace(c.Subject)
	if sub == "" {
		return auth.Claims{}, errors.Join(auth.ErrUnauthenticated, errors.New("token missing sub"))
	}

	return auth.Claims{
		UserID: sub,
		Email:  strings.ToLower(strings.TrimSpace(c.Email)),
		Role:   strings.TrimSpace(c.Role),
	}, nil
}
