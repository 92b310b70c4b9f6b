package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"meufenil/internal/domain/diary"
)

type diaryRepo struct {
	mu     sync.RWMutex
	byUser map[string][]diary.Entry
}

func NewDiaryRepo() diary.Repository {
	return &diaryRepo{
		byUser: make(map[string][]diary.Entry),
	}
}

func (r *diaryRepo) Create(ctx context.Context, e diary.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" || e.UserID == "" {
		return errors.New("entry id and user id required")
	}
	r.byUser[e.UserID] = append(r.byUser[e.UserID], e)
	return nil
}

func (r *diaryRepo) ListByUserAndDay(ctx context.Context, userID string, day time.Time) ([]diary.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]diary.Entry, 0)
	for _, e := range r.byUser[userID] {
		if e.Date.Equal(day) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
