package router

import (
	"context"
	"errors"

	"meufenil/internal/domain/delegations"
	"meufenil/internal/domain/users"
	"meufenil/internal/ports/auth"
)

// userDirectory adapta users.Service a lo que necesita delegations
// (UserDirectory y PrincipalResolver) sin que delegations importe users.
type userDirectory struct {
	users *users.Service
}

func (d userDirectory) FindByEmail(ctx context.Context, email string) (delegations.Profile, error) {
	u, err := d.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) || errors.Is(err, users.ErrInvalidInput) {
			return delegations.Profile{}, delegations.ErrUserNotFound
		}
		return delegations.Profile{}, err
	}
	return delegations.Profile{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

func (d userDirectory) Profiles(ctx context.Context, ids []string) (map[string]delegations.Profile, error) {
	in, err := d.users.Profiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]delegations.Profile, len(in))
	for id, p := range in {
		out[id] = delegations.Profile{ID: p.ID, Name: p.Name, Email: p.Email}
	}
	return out, nil
}

func (d userDirectory) Resolve(ctx context.Context, c auth.Claims) (string, error) {
	u, err := d.users.EnsureFromClaims(ctx, c)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}
