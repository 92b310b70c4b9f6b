package diary

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"meufenil/internal/domain/users"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidDate  = errors.New("date must be YYYY-MM-DD")
)

// UserLookup da límite diario y timezone del dueño de los registros.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

type Service struct {
	repo  Repository
	users UserLookup
	now   func() time.Time
}

func NewService(repo Repository, lookup UserLookup) *Service {
	return &Service{
		repo:  repo,
		users: lookup,
		now:   time.Now,
	}
}

type AddInput struct {
	Date         string // opcional; default hoy en el timezone del usuario
	Food         string
	QuantityG    float64
	PhePer100gMg float64
}

func (s *Service) Add(ctx context.Context, userID string, in AddInput) (Entry, error) {
	userID = strings.TrimSpace(userID)
	food := strings.TrimSpace(in.Food)
	if userID == "" || food == "" {
		return Entry{}, ErrInvalidInput
	}
	if in.QuantityG <= 0 || in.PhePer100gMg < 0 || math.IsNaN(in.QuantityG) || math.IsNaN(in.PhePer100gMg) {
		return Entry{}, ErrInvalidInput
	}

	u, err := s.owner(ctx, userID)
	if err != nil {
		return Entry{}, err
	}
	day, err := s.resolveDay(in.Date, u)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{
		ID:           uuid.NewString(),
		UserID:       userID,
		Date:         day,
		Food:         food,
		QuantityG:    in.QuantityG,
		PhePer100gMg: in.PhePer100gMg,
		PheMg:        PheFor(in.QuantityG, in.PhePer100gMg),
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) ListByDay(ctx context.Context, userID, date string) ([]Entry, time.Time, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, time.Time{}, ErrInvalidInput
	}
	u, err := s.owner(ctx, userID)
	if err != nil {
		return nil, time.Time{}, err
	}
	day, err := s.resolveDay(date, u)
	if err != nil {
		return nil, time.Time{}, err
	}
	items, err := s.repo.ListByUserAndDay(ctx, userID, day)
	if err != nil {
		return nil, time.Time{}, err
	}
	return items, day, nil
}

func (s *Service) Summary(ctx context.Context, userID, date string) (Summary, error) {
	items, day, err := s.ListByDay(ctx, userID, date)
	if err != nil {
		return Summary{}, err
	}
	u, err := s.owner(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	var total float64
	for _, e := range items {
		total += e.PheMg
	}
	total = round1(total)

	limit := u.DailyLimitMg
	if limit <= 0 {
		limit = users.DefaultDailyLimitMg
	}

	return Summary{
		Date:        day,
		TotalMg:     total,
		LimitMg:     limit,
		RemainingMg: round1(float64(limit) - total),
		Percent:     round1(total / float64(limit) * 100),
		Entries:     len(items),
	}, nil
}

// PheFor calcula mg de fenilalanina para una porción, redondeado a 0.1 mg.
func PheFor(quantityG, phePer100gMg float64) float64 {
	return round1(quantityG * phePer100gMg / 100)
}

// owner usa defaults si el perfil todavía no existe.
func (s *Service) owner(ctx context.Context, userID string) (users.User, error) {
	fallback := users.User{ID: userID, DailyLimitMg: users.DefaultDailyLimitMg, Timezone: users.DefaultTimezone}
	if s.users == nil {
		return fallback, nil
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return fallback, nil
		}
		return users.User{}, err
	}
	return u, nil
}

func (s *Service) resolveDay(raw string, u users.User) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		n := s.now().In(u.Location())
		return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
