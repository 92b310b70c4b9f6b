package delegations

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"meufenil/internal/domain/acting"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrNotFound         = errors.New("delegation not found")
	ErrGranteeNotFound  = errors.New("grantee not found")
	ErrSelfGrant        = errors.New("cannot delegate to yourself")
	ErrForbidden        = errors.New("forbidden")
	ErrDuplicateActive  = errors.New("active delegation already exists")
	ErrUserNotFound     = errors.New("user not found")
	errMissingDirectory = errors.New("delegations: user directory required")
)

type Service struct {
	repo  Repository
	users UserDirectory
	now   func() time.Time
}

func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{
		repo:  repo,
		users: users,
		now:   time.Now,
	}
}

// List devuelve los grants activos concedidos y recibidos por el caller.
// Las dos consultas corren en paralelo; si una falla, falla todo.
func (s *Service) List(ctx context.Context, callerID string) (Listing, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return Listing{}, ErrInvalidInput
	}

	var by, to []Grant
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.repo.ListGrantedBy(gctx, callerID)
		if err != nil {
			return fmt.Errorf("list granted by: %w", err)
		}
		by = items
		return nil
	})
	g.Go(func() error {
		items, err := s.repo.ListGrantedTo(gctx, callerID)
		if err != nil {
			return fmt.Errorf("list granted to: %w", err)
		}
		to = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return Listing{}, err
	}

	ids := make([]string, 0, len(by)+len(to))
	for _, gr := range by {
		ids = append(ids, gr.DelegateUserID)
	}
	for _, gr := range to {
		ids = append(ids, gr.OwnerUserID)
	}
	profiles, err := s.profiles(ctx, ids)
	if err != nil {
		return Listing{}, err
	}

	out := Listing{
		GrantedBy: make([]GrantWithProfile, 0, len(by)),
		GrantedTo: make([]GrantWithProfile, 0, len(to)),
	}
	for _, gr := range by {
		if !gr.Active() {
			continue
		}
		out.GrantedBy = append(out.GrantedBy, GrantWithProfile{Grant: gr, Counterpart: profileOrID(profiles, gr.DelegateUserID)})
	}
	for _, gr := range to {
		if !gr.Active() {
			continue
		}
		out.GrantedTo = append(out.GrantedTo, GrantWithProfile{Grant: gr, Counterpart: profileOrID(profiles, gr.OwnerUserID)})
	}
	return out, nil
}

// Grant concede acceso al usuario con ese email.
// Si ya hay un grant activo para el par, lo devuelve sin crear otro.
func (s *Service) Grant(ctx context.Context, callerID, email string) (Grant, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return Grant{}, ErrInvalidInput
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return Grant{}, err
	}
	if s.users == nil {
		return Grant{}, errMissingDirectory
	}

	grantee, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Grant{}, ErrGranteeNotFound
		}
		return Grant{}, err
	}
	if grantee.ID == callerID {
		return Grant{}, ErrSelfGrant
	}

	existing, err := s.repo.FindActivePair(ctx, callerID, grantee.ID)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, ErrNotFound):
		return Grant{}, err
	}

	g := Grant{
		ID:             uuid.NewString(),
		OwnerUserID:    callerID,
		DelegateUserID: grantee.ID,
		CreatedAt:      s.now(),
	}
	if err := s.repo.Create(ctx, g); err != nil {
		// otro request concedió lo mismo entre FindActivePair y Create
		if errors.Is(err, ErrDuplicateActive) {
			return s.repo.FindActivePair(ctx, callerID, grantee.ID)
		}
		return Grant{}, err
	}
	return g, nil
}

// Revoke revoca un grant concedido por el caller. Revocar dos veces no es error.
func (s *Service) Revoke(ctx context.Context, callerID, grantID string) error {
	callerID = strings.TrimSpace(callerID)
	grantID = strings.TrimSpace(grantID)
	if callerID == "" || grantID == "" {
		return ErrInvalidInput
	}

	g, err := s.repo.GetByID(ctx, grantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if g.OwnerUserID != callerID {
		return ErrForbidden
	}
	if !g.Active() {
		return nil
	}

	// 0 filas = otro revoke ganó la carrera; el estado final es el mismo.
	if _, err := s.repo.Revoke(ctx, grantID, callerID, s.now()); err != nil {
		return err
	}
	return nil
}

// Assume valida que el caller es delegado de un grant activo y devuelve al dueño.
// No modifica el grant.
func (s *Service) Assume(ctx context.Context, callerID, grantID string) (Assumption, error) {
	callerID = strings.TrimSpace(callerID)
	grantID = strings.TrimSpace(grantID)
	if grantID == "" || callerID == "" {
		return Assumption{}, ErrInvalidInput
	}

	g, err := s.repo.GetActive(ctx, grantID, callerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Assumption{}, ErrForbidden
		}
		return Assumption{}, err
	}

	profiles, err := s.profiles(ctx, []string{g.OwnerUserID})
	if err != nil {
		return Assumption{}, err
	}

	return Assumption{
		GrantID:       g.ID,
		AssumedUserID: g.OwnerUserID,
		Owner:         profileOrID(profiles, g.OwnerUserID),
	}, nil
}

// Exit es solo un acuse; el overlay lo limpia el cliente.
func (s *Service) Exit(_ context.Context, callerID string) error {
	if strings.TrimSpace(callerID) == "" {
		return ErrInvalidInput
	}
	return nil
}

// ActingAs implementa acting.Resolver.
func (s *Service) ActingAs(ctx context.Context, selfID, grantID string) (string, error) {
	a, err := s.Assume(ctx, selfID, grantID)
	if err != nil {
		if errors.Is(err, ErrForbidden) || errors.Is(err, ErrInvalidInput) {
			return "", fmt.Errorf("%w: %v", acting.ErrNotDelegated, err)
		}
		return "", err
	}
	return a.AssumedUserID, nil
}

func (s *Service) profiles(ctx context.Context, ids []string) (map[string]Profile, error) {
	if s.users == nil || len(ids) == 0 {
		return map[string]Profile{}, nil
	}
	return s.users.Profiles(ctx, ids)
}

func profileOrID(m map[string]Profile, id string) Profile {
	if p, ok := m[id]; ok {
		return p
	}
	return Profile{ID: id}
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Name != "" || addr.Address != raw {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}
