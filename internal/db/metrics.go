package db

import (
	"errors"
	"time"

	"skyrelief/dispatch/internal/metrics"

	"gorm.io/gorm"
)

const startedAtKey = "dispatch:query_started_at"

// InstrumentQueries registers GORM callbacks that time every statement
// and report it to the registry under its operation type.
func InstrumentQueries(db *gorm.DB, reg *metrics.MetricsRegistry) error {
	if reg == nil {
		return nil
	}

	before := func(tx *gorm.DB) {
		tx.InstanceSet(startedAtKey, time.Now())
	}
	after := func(queryType string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(startedAtKey)
			if !ok {
				return
			}
			started, ok := v.(time.Time)
			if !ok {
				return
			}

			err := tx.Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = nil
			}
			reg.ObserveQuery(queryType, time.Since(started).Seconds(), err)
		}
	}

	cb := db.Callback()
	steps := []struct {
		name     string
		register func(string, func(*gorm.DB)) error
		after    func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, s := range steps {
		if err := s.register("metrics:before_"+s.name, before); err != nil {
			return err
		}
		if err := s.after("metrics:after_"+s.name, after(s.name)); err != nil {
			return err
		}
	}
	return nil
}
