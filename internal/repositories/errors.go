package repositories

import (
	"context"
	"errors"

	"maninews/internal/apperror"

	"gorm.io/gorm"
)

// translateError maps a GORM error to the application error taxonomy. op
// names the failing operation for the logs.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NewNotFound(op + ": not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.NewConflict("a record with the same unique value already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.NewConstraint("operation violates a reference between records", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.NewFault(op+": storage timeout", err)
	default:
		return apperror.NewFault(op, err)
	}
}

// lookupError reports a missing record as NotFound with a client-facing
// message and translates everything else.
func lookupError(entity, op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFound(entity + " not found")
	}
	return translateError(op, err)
}

// ensureUnique fails with a Conflict error when a row of model matches the
// query.
func ensureUnique(tx *gorm.DB, model interface{}, message string, query string, args ...interface{}) error {
	var count int64
	if err := tx.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflict(message, nil)
	}
	return nil
}
