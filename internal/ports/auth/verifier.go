package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated lo devuelven los verifiers cuando el token falta, está mal formado o fue rechazado.
var ErrUnauthenticated = errors.New("unauthenticated")

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
