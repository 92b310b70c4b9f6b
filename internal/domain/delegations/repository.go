package delegations

import (
	"context"
	"time"
)

type Repository interface {
	// Create falla con ErrDuplicateActive si ya hay un grant activo para el par.
	Create(ctx context.Context, g Grant) error
	GetByID(ctx context.Context, id string) (Grant, error)

	// Solo activos, orden estable por created_at, id.
	ListGrantedBy(ctx context.Context, ownerUserID string) ([]Grant, error)
	ListGrantedTo(ctx context.Context, delegateUserID string) ([]Grant, error)

	GetActive(ctx context.Context, id, delegateUserID string) (Grant, error)
	FindActivePair(ctx context.Context, ownerUserID, delegateUserID string) (Grant, error)

	// Revoke setea revoked_at donde id = id AND owner = ownerUserID AND activo.
	// Devuelve filas afectadas.
	Revoke(ctx context.Context, id, ownerUserID string, at time.Time) (int64, error)
}

// UserDirectory resuelve perfiles sin importar el paquete users (rompe ciclos).
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (Profile, error)
	Profiles(ctx context.Context, ids []string) (map[string]Profile, error)
}
