package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Base is embedded by every gorm-backed repository.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB binds ctx to the connection. A nil ctx returns the bare handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Tx runs fn in one transaction; a returned error rolls back.
func (b Base) Tx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return b.DB(ctx).Transaction(fn)
}

// Lookup runs find and folds gorm.ErrRecordNotFound into found=false.
func Lookup[T any](find func(dest *T) error) (T, bool, error) {
	var row T
	err := find(&row)
	switch {
	case IsNotFound(err):
		var zero T
		return zero, false, nil
	case err != nil:
		var zero T
		return zero, false, err
	}
	return row, true, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
