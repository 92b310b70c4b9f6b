package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"meufenil/internal/ports/auth"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// EnsureFromClaims devuelve el perfil del principal autenticado, creándolo en el primer login.
func (s *Service) EnsureFromClaims(ctx context.Context, c auth.Claims) (User, error) {
	id := strings.TrimSpace(c.UserID)
	if id == "" {
		return User{}, ErrInvalidInput
	}
	email := normalizeEmail(c.Email)

	u, err := s.repo.GetByID(ctx, id)
	switch {
	case err == nil:
		if email != "" && u.Email != email {
			u.Email = email
			u.UpdatedAt = s.now()
			if err := s.repo.Update(ctx, u); err != nil {
				return User{}, err
			}
		}
		return u, nil
	case !errors.Is(err, ErrNotFound):
		return User{}, err
	}

	now := s.now()
	u = User{
		ID:           id,
		Name:         nameFromEmail(email),
		Email:        email,
		Role:         RoleUser,
		DailyLimitMg: DefaultDailyLimitMg,
		Timezone:     DefaultTimezone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// dos requests del mismo primer login: gana el otro insert
		if errors.Is(err, ErrAlreadyExists) {
			return s.repo.GetByID(ctx, id)
		}
		return User{}, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return User{}, ErrInvalidInput
	}
	return s.repo.FindByEmail(ctx, email)
}

// Profiles resuelve perfiles por id. Ids desconocidos no aparecen en el mapa.
func (s *Service) Profiles(ctx context.Context, ids []string) (map[string]Profile, error) {
	out := make(map[string]Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	items, err := s.repo.ListByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}
	for _, u := range items {
		out[u.ID] = u.Profile()
	}
	return out, nil
}

type UpdateProfileInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name         *string
	DailyLimitMg *int
	Timezone     *string
	Consent      bool
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return User{}, ErrInvalidInput
		}
		u.Name = name
	}
	if in.DailyLimitMg != nil {
		if *in.DailyLimitMg < MinDailyLimitMg || *in.DailyLimitMg > MaxDailyLimitMg {
			return User{}, ErrInvalidInput
		}
		u.DailyLimitMg = *in.DailyLimitMg
	}
	if in.Timezone != nil {
		tz := strings.TrimSpace(*in.Timezone)
		if _, err := time.LoadLocation(tz); err != nil || tz == "" {
			return User{}, ErrInvalidInput
		}
		u.Timezone = tz
	}

	now := s.now()
	if in.Consent && u.ConsentAt == nil {
		u.ConsentAt = &now
	}
	u.UpdatedAt = now

	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "Usuário"
	}
	return local
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
