package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"meufenil/internal/domain/delegations"
)

func TestDelegationsRepo_OneActivePerPair(t *testing.T) {
	repo := NewDelegationsRepo()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- repo.Create(ctx, delegations.Grant{
				ID:             fmt.Sprintf("g-%d", i),
				OwnerUserID:    "owner",
				DelegateUserID: "delegate",
				CreatedAt:      base,
			})
		}(i)
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, delegations.ErrDuplicateActive)
	}
	require.Equal(t, 1, ok)
}

func TestDelegationsRepo_RevokeAndList(t *testing.T) {
	repo := NewDelegationsRepo()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, d := range []string{"d2", "d1", "d3"} {
		require.NoError(t, repo.Create(ctx, delegations.Grant{
			ID:             "g-" + d,
			OwnerUserID:    "owner",
			DelegateUserID: d,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}))
	}

	n, err := repo.Revoke(ctx, "g-d1", "someone-else", base)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = repo.Revoke(ctx, "g-d1", "owner", base)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = repo.Revoke(ctx, "g-d1", "owner", base.Add(time.Hour))
	require.NoError(t, err)
	require.Zero(t, n)

	g, err := repo.GetByID(ctx, "g-d1")
	require.NoError(t, err)
	require.True(t, g.RevokedAt.Equal(base), "second revoke keeps the first timestamp")

	by, err := repo.ListGrantedBy(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, by, 2)
	require.Equal(t, "g-d2", by[0].ID)
	require.Equal(t, "g-d3", by[1].ID)

	_, err = repo.GetActive(ctx, "g-d1", "d1")
	require.ErrorIs(t, err, delegations.ErrNotFound)

	got, err := repo.GetActive(ctx, "g-d2", "d2")
	require.NoError(t, err)
	require.Equal(t, "owner", got.OwnerUserID)

	_, err = repo.GetActive(ctx, "g-d2", "d3")
	require.ErrorIs(t, err, delegations.ErrNotFound)

	// tras revocar se puede volver a conceder
	require.NoError(t, repo.Create(ctx, delegations.Grant{ID: "g-d1-b", OwnerUserID: "owner", DelegateUserID: "d1", CreatedAt: base.Add(time.Hour)}))
	pair, err := repo.FindActivePair(ctx, "owner", "d1")
	require.NoError(t, err)
	require.Equal(t, "g-d1-b", pair.ID)
}
