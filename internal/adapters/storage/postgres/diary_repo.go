package postgres

import (
	"context"
	"database/sql"
	"time"

	"meufenil/internal/domain/diary"
)

type DiaryRepo struct {
	db *sql.DB
}

func NewDiaryRepo(db *sql.DB) *DiaryRepo {
	return &DiaryRepo{db: db}
}

func (r *DiaryRepo) Create(ctx context.Context, e diary.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO registros (
			id, usuario_id, data,
			alimento, quantidade_g, fenilalanina_por_100g, fenilalanina_mg,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		e.ID,
		e.UserID,
		e.Date,
		e.Food,
		e.QuantityG,
		e.PhePer100gMg,
		e.PheMg,
		e.CreatedAt,
	)
	return mapError(err)
}

func (r *DiaryRepo) ListByUserAndDay(ctx context.Context, userID string, day time.Time) ([]diary.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, usuario_id, data,
			alimento, quantidade_g, fenilalanina_por_100g, fenilalanina_mg,
			created_at
		FROM registros
		WHERE usuario_id = $1 AND data = $2
		ORDER BY created_at ASC, id ASC
	`, userID, day)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]diary.Entry, 0)
	for rows.Next() {
		var e diary.Entry
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Date,
			&e.Food,
			&e.QuantityG,
			&e.PhePer100gMg,
			&e.PheMg,
			&e.CreatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		e.Date = e.Date.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}
