//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"meufenil/internal/domain/delegations"
	"meufenil/internal/domain/diary"
	"meufenil/internal/domain/users"
	"meufenil/internal/platform/logger"
)

func setupPostgres(t *testing.T, ctx context.Context) *sql.DB {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "meufenil",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/meufenil?sslmode=disable", host, port.Port())
	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db, logger.Nop()))
	// idempotente
	require.NoError(t, Migrate(ctx, db, logger.Nop()))

	return db
}

func seedUser(t *testing.T, ctx context.Context, repo *UsersRepo, id, email string) users.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	u := users.User{
		ID:           id,
		Name:         id,
		Email:        email,
		Role:         users.RoleUser,
		DailyLimitMg: users.DefaultDailyLimitMg,
		Timezone:     users.DefaultTimezone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(ctx, u))
	return u
}

func TestIntegration_Repos(t *testing.T) {
	ctx := context.Background()
	db := setupPostgres(t, ctx)

	usersRepo := NewUsersRepo(db)
	grantsRepo := NewDelegationsRepo(db)
	diaryRepo := NewDiaryRepo(db)

	owner := seedUser(t, ctx, usersRepo, "owner-1", "dono@example.com")
	delegate := seedUser(t, ctx, usersRepo, "delegate-1", "Delegado@Example.com")

	t.Run("users", func(t *testing.T) {
		err := usersRepo.Create(ctx, owner)
		require.ErrorIs(t, err, users.ErrAlreadyExists)

		got, err := usersRepo.FindByEmail(ctx, "delegado@example.com")
		require.NoError(t, err)
		require.Equal(t, delegate.ID, got.ID)

		_, err = usersRepo.GetByID(ctx, "ghost")
		require.ErrorIs(t, err, users.ErrNotFound)

		list, err := usersRepo.ListByIDs(ctx, []string{delegate.ID, owner.ID, "ghost"})
		require.NoError(t, err)
		require.Len(t, list, 2)

		now := time.Now().UTC()
		owner.ConsentAt = &now
		owner.DailyLimitMg = 420
		require.NoError(t, usersRepo.Update(ctx, owner))
		got, err = usersRepo.GetByID(ctx, owner.ID)
		require.NoError(t, err)
		require.Equal(t, 420, got.DailyLimitMg)
		require.NotNil(t, got.ConsentAt)
	})

	t.Run("delegations", func(t *testing.T) {
		g := delegations.Grant{
			ID:             "grant-1",
			OwnerUserID:    owner.ID,
			DelegateUserID: delegate.ID,
			CreatedAt:      time.Now().UTC(),
		}
		require.NoError(t, grantsRepo.Create(ctx, g))

		dup := g
		dup.ID = "grant-dup"
		require.ErrorIs(t, grantsRepo.Create(ctx, dup), delegations.ErrDuplicateActive)

		self := g
		self.ID = "grant-self"
		self.DelegateUserID = owner.ID
		require.ErrorIs(t, grantsRepo.Create(ctx, self), delegations.ErrSelfGrant)

		by, err := grantsRepo.ListGrantedBy(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, by, 1)
		to, err := grantsRepo.ListGrantedTo(ctx, delegate.ID)
		require.NoError(t, err)
		require.Len(t, to, 1)

		_, err = grantsRepo.GetActive(ctx, g.ID, delegate.ID)
		require.NoError(t, err)
		_, err = grantsRepo.GetActive(ctx, g.ID, owner.ID)
		require.ErrorIs(t, err, delegations.ErrNotFound)

		n, err := grantsRepo.Revoke(ctx, g.ID, delegate.ID, time.Now())
		require.NoError(t, err)
		require.Zero(t, n, "only the owner revokes")

		n, err = grantsRepo.Revoke(ctx, g.ID, owner.ID, time.Now())
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		n, err = grantsRepo.Revoke(ctx, g.ID, owner.ID, time.Now())
		require.NoError(t, err)
		require.Zero(t, n)

		got, err := grantsRepo.GetByID(ctx, g.ID)
		require.NoError(t, err)
		require.False(t, got.Active())

		_, err = grantsRepo.FindActivePair(ctx, owner.ID, delegate.ID)
		require.ErrorIs(t, err, delegations.ErrNotFound)

		// revocado libera el índice parcial
		again := g
		again.ID = "grant-2"
		require.NoError(t, grantsRepo.Create(ctx, again))
	})

	t.Run("concurrent grants keep one active", func(t *testing.T) {
		other := seedUser(t, ctx, usersRepo, "delegate-2", "outro@example.com")

		var wg sync.WaitGroup
		results := make(chan error, 6)
		for i := 0; i < 6; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results <- grantsRepo.Create(ctx, delegations.Grant{
					ID:             fmt.Sprintf("race-%d", i),
					OwnerUserID:    owner.ID,
					DelegateUserID: other.ID,
					CreatedAt:      time.Now().UTC(),
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
	})

	t.Run("diary", func(t *testing.T) {
		day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		for i, food := range []string{"arroz", "feijão"} {
			require.NoError(t, diaryRepo.Create(ctx, diary.Entry{
				ID:           fmt.Sprintf("entry-%d", i),
				UserID:       owner.ID,
				Date:         day,
				Food:         food,
				QuantityG:    100,
				PhePer100gMg: 120,
				PheMg:        120,
				CreatedAt:    time.Now().UTC().Add(time.Duration(i) * time.Second),
			}))
		}

		items, err := diaryRepo.ListByUserAndDay(ctx, owner.ID, day)
		require.NoError(t, err)
		require.Len(t, items, 2)
		require.Equal(t, "arroz", items[0].Food)
		require.True(t, items[0].Date.Equal(day))

		items, err = diaryRepo.ListByUserAndDay(ctx, delegate.ID, day)
		require.NoError(t, err)
		require.Empty(t, items)

		err = diaryRepo.Create(ctx, diary.Entry{ID: "orphan", UserID: "ghost", Date: day, Food: "x", QuantityG: 1, CreatedAt: time.Now()})
		require.ErrorIs(t, err, users.ErrNotFound)
	})
}
