package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"meufenil/internal/domain/delegations"
)

type delegationRepo struct {
	mu   sync.RWMutex
	byID map[string]delegations.Grant
}

func NewDelegationsRepo() delegations.Repository {
	return &delegationRepo{
		byID: make(map[string]delegations.Grant),
	}
}

// Create reproduce el índice único parcial de Postgres (un activo por par).
func (r *delegationRepo) Create(ctx context.Context, g delegations.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID == "" {
		return errors.New("grant id required")
	}
	if _, exists := r.byID[g.ID]; exists {
		return errors.New("grant already exists")
	}
	if g.Active() {
		for _, other := range r.byID {
			if other.Active() && other.OwnerUserID == g.OwnerUserID && other.DelegateUserID == g.DelegateUserID {
				return delegations.ErrDuplicateActive
			}
		}
	}
	r.byID[g.ID] = g
	return nil
}

func (r *delegationRepo) GetByID(ctx context.Context, id string) (delegations.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return delegations.Grant{}, delegations.ErrNotFound
	}
	return g, nil
}

func (r *delegationRepo) ListGrantedBy(ctx context.Context, ownerUserID string) ([]delegations.Grant, error) {
	return r.listActive(func(g delegations.Grant) bool { return g.OwnerUserID == ownerUserID }), nil
}

func (r *delegationRepo) ListGrantedTo(ctx context.Context, delegateUserID string) ([]delegations.Grant, error) {
	return r.listActive(func(g delegations.Grant) bool { return g.DelegateUserID == delegateUserID }), nil
}

func (r *delegationRepo) GetActive(ctx context.Context, id, delegateUserID string) (delegations.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok || !g.Active() || g.DelegateUserID != delegateUserID {
		return delegations.Grant{}, delegations.ErrNotFound
	}
	return g, nil
}

func (r *delegationRepo) FindActivePair(ctx context.Context, ownerUserID, delegateUserID string) (delegations.Grant, error) {
	items := r.listActive(func(g delegations.Grant) bool {
		return g.OwnerUserID == ownerUserID && g.DelegateUserID == delegateUserID
	})
	if len(items) == 0 {
		return delegations.Grant{}, delegations.ErrNotFound
	}
	return items[0], nil
}

func (r *delegationRepo) Revoke(ctx context.Context, id, ownerUserID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.byID[id]
	if !ok || g.OwnerUserID != ownerUserID || !g.Active() {
		return 0, nil
	}
	t := at
	g.RevokedAt = &t
	r.byID[id] = g
	return 1, nil
}

func (r *delegationRepo) listActive(match func(delegations.Grant) bool) []delegations.Grant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]delegations.Grant, 0)
	for _, g := range r.byID {
		if g.Active() && match(g) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
