package diary

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e Entry) error
	// ListByUserAndDay ordena por created_at asc.
	ListByUserAndDay(ctx context.Context, userID string, day time.Time) ([]Entry, error)
}
