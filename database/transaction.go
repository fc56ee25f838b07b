package database

import (
	"context"
	"fmt"
)

// WithUnitOfWork executes fn within a unit of work.
// A read-write unit is committed when fn returns nil and rolled back when it
// returns an error or panics. The connection is released in every case.
func (db *DB) WithUnitOfWork(ctx context.Context, readOnly bool, fn func(uow *UnitOfWork) error) (err error) {
	uow, err := db.NewUnitOfWork(ctx, readOnly)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := uow.Rollback(); rbErr != nil {
				err = fmt.Errorf("rollback failed: %v, original error: %w", rbErr, err)
			}
			return
		}
		err = uow.Commit()
	}()

	err = fn(uow)
	return err
}
