package repository

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup by key matches no row
	ErrNotFound = stderrors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index
	ErrDuplicate = stderrors.New("duplicate record")
)

// pick returns the transaction when one is given, the base handle otherwise
func pick(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

func notFoundOr(err error, msg string) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func duplicateOr(err error, msg string) error {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return errors.Wrap(err, msg)
}
