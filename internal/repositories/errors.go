package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrGoalNotFound       = errors.New("tip goal not found")
	ErrGoalAlreadyApplied = errors.New("tip already counted toward goal")
	ErrDuplicateTx        = errors.New("transaction hash already recorded")
	ErrNonceInvalid       = errors.New("invalid or expired nonce")
)

const uniqueViolation = "23505"

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
