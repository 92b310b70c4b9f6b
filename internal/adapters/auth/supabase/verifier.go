package supabase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meufenil/internal/ports/auth"
)

// Verifier implementa auth.AuthVerifier preguntando a Supabase Auth por cada token.
// Sirve cuando no se tiene el JWT secret del proyecto (o se quiere detectar logout inmediato).
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrSupabaseNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthenticated
	}

	claims, err := v.client.GetUser(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("supabase verify failed: %w", err)
	}
	if claims.UserID == "" {
		return auth.Claims{}, errors.New("supabase claims missing user id")
	}
	return claims, nil
}
