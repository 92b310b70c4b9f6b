package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"meufenil/internal/domain/delegations"
	"meufenil/internal/domain/users"
)

const (
	constraintUsersPK          = "usuarios_pkey"
	constraintActiveDelegation = "delegacoes_ativas_unq"
	constraintNoSelfDelegation = "delegacoes_sem_auto_chk"
)

// mapError traduce errores de Postgres a los sentinels de dominio.
// Si no es un *pgconn.PgError lo devuelve tal cual.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case constraintActiveDelegation:
			return delegations.ErrDuplicateActive
		case constraintUsersPK:
			return users.ErrAlreadyExists
		}
		return fmt.Errorf("unique constraint violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", users.ErrNotFound, pgErr.Detail)

	case pgerrcode.CheckViolation:
		if pgErr.ConstraintName == constraintNoSelfDelegation {
			return delegations.ErrSelfGrant
		}
		return fmt.Errorf("check constraint violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("transaction conflict (retryable): %w", err)

	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.CannotConnectNow,
		pgerrcode.SQLClientUnableToEstablishSQLConnection:
		return fmt.Errorf("database connection error: %w", err)

	case pgerrcode.QueryCanceled:
		return fmt.Errorf("query canceled: %w", err)

	default:
		return fmt.Errorf("postgres error [%s]: %s: %w", pgErr.Code, pgErr.Message, err)
	}
}
