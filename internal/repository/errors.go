package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task id is absent from the store
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskAlreadyExists is returned when a second initiation inserts the same task id
	ErrTaskAlreadyExists = errors.New("task already exists")

	// ErrTaskLocked is returned when the task row is locked by another transaction
	ErrTaskLocked = errors.New("task is locked by another transaction")

	// ErrOptimisticLock is returned when the task version changed since it was read
	ErrOptimisticLock = errors.New("task was modified concurrently")

	// ErrTaskNotIndexable is returned when an indexed task lacks a signature attribute
	ErrTaskNotIndexable = errors.New("task cannot be indexed before jurisdiction, region, location and security classification are set")
)

const (
	pgUniqueViolation   = "23505"
	pgLockNotAvailable  = "55P03"
	pgSerializationFail = "40001"
)

// IsConflict reports whether err is a conflict the caller may retry.
func IsConflict(err error) bool {
	return errors.Is(err, ErrTaskAlreadyExists) ||
		errors.Is(err, ErrTaskLocked) ||
		errors.Is(err, ErrOptimisticLock)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTaskNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrTaskAlreadyExists, pgErr.Message)
		case pgLockNotAvailable:
			return fmt.Errorf("%w: %s", ErrTaskLocked, pgErr.Message)
		case pgSerializationFail:
			return fmt.Errorf("%w: %s", ErrOptimisticLock, pgErr.Message)
		}
	}
	return err
}
