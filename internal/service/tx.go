package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction. Every statement of fn must go
// through tx; the whole unit commits or rolls back together.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return translate(db.WithContext(ctx).Transaction(fn))
}

func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }
