package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"meufenil/internal/domain/delegations"
)

type DelegationsRepo struct {
	db *sql.DB
}

func NewDelegationsRepo(db *sql.DB) *DelegationsRepo {
	return &DelegationsRepo{db: db}
}

const grantColumns = `id, dono_id, delegado_id, created_at, revogado_em`

// Create devuelve delegations.ErrDuplicateActive si choca con delegacoes_ativas_unq.
func (r *DelegationsRepo) Create(ctx context.Context, g delegations.Grant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO delegacoes (`+grantColumns+`)
		VALUES ($1,$2,$3,$4,$5)
	`,
		g.ID,
		g.OwnerUserID,
		g.DelegateUserID,
		g.CreatedAt,
		toNullTime(g.RevokedAt),
	)
	return mapError(err)
}

func (r *DelegationsRepo) GetByID(ctx context.Context, id string) (delegations.Grant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return delegations.Grant{}, delegations.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+grantColumns+` FROM delegacoes WHERE id = $1`, id)
	return scanGrant(row)
}

func (r *DelegationsRepo) ListGrantedBy(ctx context.Context, ownerUserID string) ([]delegations.Grant, error) {
	return r.listActive(ctx, "dono_id", ownerUserID)
}

func (r *DelegationsRepo) ListGrantedTo(ctx context.Context, delegateUserID string) ([]delegations.Grant, error) {
	return r.listActive(ctx, "delegado_id", delegateUserID)
}

func (r *DelegationsRepo) GetActive(ctx context.Context, id, delegateUserID string) (delegations.Grant, error) {
	id = strings.TrimSpace(id)
	if id == "" || delegateUserID == "" {
		return delegations.Grant{}, delegations.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT `+grantColumns+`
		FROM delegacoes
		WHERE id = $1 AND delegado_id = $2 AND revogado_em IS NULL
	`, id, delegateUserID)
	return scanGrant(row)
}

func (r *DelegationsRepo) FindActivePair(ctx context.Context, ownerUserID, delegateUserID string) (delegations.Grant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+grantColumns+`
		FROM delegacoes
		WHERE dono_id = $1 AND delegado_id = $2 AND revogado_em IS NULL
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`, ownerUserID, delegateUserID)
	return scanGrant(row)
}

// Revoke es un UPDATE condicional: 0 filas si no es del dueño o ya estaba revocado.
func (r *DelegationsRepo) Revoke(ctx context.Context, id, ownerUserID string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE delegacoes
		SET revogado_em = $3
		WHERE id = $1 AND dono_id = $2 AND revogado_em IS NULL
	`, id, ownerUserID, at)
	if err != nil {
		return 0, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// column viene de una lista fija (dono_id / delegado_id), nunca del request.
func (r *DelegationsRepo) listActive(ctx context.Context, column, userID string) ([]delegations.Grant, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+grantColumns+`
		FROM delegacoes
		WHERE `+column+` = $1 AND revogado_em IS NULL
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]delegations.Grant, 0)
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func scanGrant(s rowScanner) (delegations.Grant, error) {
	var g delegations.Grant
	var revokedAt sql.NullTime

	if err := s.Scan(
		&g.ID,
		&g.OwnerUserID,
		&g.DelegateUserID,
		&g.CreatedAt,
		&revokedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return delegations.Grant{}, delegations.ErrNotFound
		}
		return delegations.Grant{}, mapError(err)
	}

	g.RevokedAt = fromNullTime(revokedAt)
	return g, nil
}
