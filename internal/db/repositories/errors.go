package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrStaleVersion is returned by versioned updates when the row was changed
// since it was read.
var ErrStaleVersion = errors.New("stale version")

// Page bounds a list query. A zero Limit means no limit.
type Page struct {
	Offset int
	Limit  int
}

func paginate(q *gorm.DB, p Page) *gorm.DB {
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	return q
}
