package diary

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"meufenil/internal/domain/users"
)

type testRepo struct {
	mu    sync.Mutex
	items []Entry
}

func (r *testRepo) Create(_ context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, e)
	return nil
}

func (r *testRepo) ListByUserAndDay(_ context.Context, userID string, day time.Time) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0)
	for _, e := range r.items {
		if e.UserID == userID && e.Date.Equal(day) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type testUsers map[string]users.User

func (m testUsers) GetByID(_ context.Context, id string) (users.User, error) {
	u, ok := m[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

type failingUsers struct{ err error }

func (f failingUsers) GetByID(context.Context, string) (users.User, error) {
	return users.User{}, f.err
}

func newTestService(lookup UserLookup, now time.Time) (*Service, *testRepo) {
	repo := &testRepo{}
	svc := NewService(repo, lookup)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestPheFor(t *testing.T) {
	require.Equal(t, 50.0, PheFor(100, 50))
	require.Equal(t, 12.5, PheFor(25, 50))
	require.Equal(t, 0.3, PheFor(1, 33))
	require.Equal(t, 0.0, PheFor(80, 0))
}

func TestAdd_ComputesPheAndDefaultsDay(t *testing.T) {
	// 01:30 UTC del 2 de marzo = 22:30 del 1 de marzo en São Paulo
	now := time.Date(2026, 3, 2, 1, 30, 0, 0, time.UTC)
	svc, _ := newTestService(testUsers{
		"u1": {ID: "u1", DailyLimitMg: 300, Timezone: "America/Sao_Paulo"},
	}, now)

	e, err := svc.Add(context.Background(), "u1", AddInput{Food: " arroz ", QuantityG: 150, PhePer100gMg: 120})
	require.NoError(t, err)
	require.NotEmpty(t, e.ID)
	require.Equal(t, "arroz", e.Food)
	require.Equal(t, 180.0, e.PheMg)
	require.Equal(t, "2026-03-01", e.Date.Format(DateLayout))
}

func TestAdd_ExplicitDate(t *testing.T) {
	svc, _ := newTestService(testUsers{}, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))

	e, err := svc.Add(context.Background(), "u1", AddInput{Date: "2026-02-27", Food: "maçã", QuantityG: 100, PhePer100gMg: 6})
	require.NoError(t, err)
	require.Equal(t, "2026-02-27", e.Date.Format(DateLayout))

	_, err = svc.Add(context.Background(), "u1", AddInput{Date: "27/02/2026", Food: "maçã", QuantityG: 100, PhePer100gMg: 6})
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestAdd_Validation(t *testing.T) {
	svc, _ := newTestService(testUsers{}, time.Now())
	ctx := context.Background()

	cases := []struct {
		name   string
		userID string
		in     AddInput
	}{
		{"no user", "", AddInput{Food: "x", QuantityG: 1, PhePer100gMg: 1}},
		{"no food", "u1", AddInput{Food: "  ", QuantityG: 1, PhePer100gMg: 1}},
		{"zero quantity", "u1", AddInput{Food: "x", QuantityG: 0, PhePer100gMg: 1}},
		{"negative phe", "u1", AddInput{Food: "x", QuantityG: 1, PhePer100gMg: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tc.userID, tc.in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestListByDay_ScopedToUser(t *testing.T) {
	svc, _ := newTestService(testUsers{}, time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", AddInput{Food: "pão", QuantityG: 50, PhePer100gMg: 400})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "u2", AddInput{Food: "leite", QuantityG: 200, PhePer100gMg: 170})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "u1", AddInput{Date: "2026-02-28", Food: "ovo", QuantityG: 50, PhePer100gMg: 680})
	require.NoError(t, err)

	items, day, err := svc.ListByDay(ctx, "u1", "")
	require.NoError(t, err)
	require.Equal(t, "2026-03-01", day.Format(DateLayout))
	require.Len(t, items, 1)
	require.Equal(t, "pão", items[0].Food)

	items, _, err = svc.ListByDay(ctx, "u1", "2026-02-28")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "ovo", items[0].Food)
}

func TestSummary_UsesUserLimit(t *testing.T) {
	svc, _ := newTestService(testUsers{
		"u1": {ID: "u1", DailyLimitMg: 250, Timezone: "UTC"},
	}, time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", AddInput{Food: "arroz", QuantityG: 100, PhePer100gMg: 120})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "u1", AddInput{Food: "feijão", QuantityG: 50, PhePer100gMg: 260})
	require.NoError(t, err)

	s, err := svc.Summary(ctx, "u1", "")
	require.NoError(t, err)
	require.Equal(t, 250.0, s.TotalMg)
	require.Equal(t, 250, s.LimitMg)
	require.Equal(t, 0.0, s.RemainingMg)
	require.Equal(t, 100.0, s.Percent)
	require.Equal(t, 2, s.Entries)

	_, err = svc.Add(ctx, "u1", AddInput{Food: "biscoito", QuantityG: 10, PhePer100gMg: 250})
	require.NoError(t, err)

	s, err = svc.Summary(ctx, "u1", "")
	require.NoError(t, err)
	require.Equal(t, -25.0, s.RemainingMg)
	require.Equal(t, 110.0, s.Percent)
}

func TestSummary_UnknownUserUsesDefaults(t *testing.T) {
	svc, _ := newTestService(testUsers{}, time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC))

	s, err := svc.Summary(context.Background(), "ghost", "2026-03-01")
	require.NoError(t, err)
	require.Equal(t, users.DefaultDailyLimitMg, s.LimitMg)
	require.Equal(t, 0.0, s.TotalMg)
	require.Equal(t, 0, s.Entries)
}

func TestSummary_PropagatesLookupError(t *testing.T) {
	boom := errors.New("db down")
	svc, _ := newTestService(failingUsers{err: boom}, time.Now())

	_, err := svc.Summary(context.Background(), "u1", "")
	require.ErrorIs(t, err, boom)
}
