// Package pagination implements keyset (cursor) pagination with a mandatory
// unique-id tie-break. Every list query in the repository traverses rows in
// strictly descending (order field, id) order; a cursor names the last row a
// caller has seen and the next page selects rows strictly after it:
//
//	orderField < key OR (orderField = key AND id < tiebreakId)
//
// Without the tie-break, rows sharing an order-field value (timestamps at
// second granularity, equal view counts) are skipped or duplicated across
// page boundaries.
package pagination

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinLimit = 1
	MaxLimit = 100
)

var ErrLimitOutOfRange = fmt.Errorf("limit must be between %d and %d", MinLimit, MaxLimit)

// ValidateLimit rejects out-of-range limits before any query executes.
func ValidateLimit(limit int) error {
	if limit < MinLimit || limit > MaxLimit {
		return ErrLimitOutOfRange
	}
	return nil
}

// Page is one page of a keyset traversal. NextCursor is non-nil iff strictly
// more matching rows exist beyond Items under the traversal order.
type Page[T any, C any] struct {
	Items      []T `json:"items"`
	NextCursor *C  `json:"nextCursor"`
}

// Resolve turns the rows of a limit+1 probe query into a page. When the
// probe row is present it is discarded and the next cursor is derived from
// the last row kept; otherwise the traversal is complete.
func Resolve[T any, C any](rows []T, limit int, cursorOf func(T) C) Page[T, C] {
	if len(rows) <= limit {
		return Page[T, C]{Items: rows}
	}
	items := rows[:limit]
	next := cursorOf(items[limit-1])
	return Page[T, C]{Items: items, NextCursor: &next}
}

// TimeCursor continues a traversal ordered by a timestamp column descending,
// tie-broken by id descending.
type TimeCursor struct {
	UpdatedAt time.Time `json:"updatedAt"`
	ID        uuid.UUID `json:"id"`
}

func (TimeCursor) CursorKind() string { return "time" }

// Scope applies the keyset predicate against the given columns. A nil
// cursor matches everything, so callers chain it unconditionally.
func (c *TimeCursor) Scope(orderCol, idCol string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if c == nil {
			return db
		}
		cond := fmt.Sprintf("%s < ? OR (%s = ? AND %s < ?)", orderCol, orderCol, idCol)
		return db.Where(cond, c.UpdatedAt, c.UpdatedAt, c.ID)
	}
}

// CountCursor continues a traversal ordered by a numeric metric descending,
// tie-broken by id descending. The metric is usually a correlated subquery
// (e.g. a view count), so the order expression is passed in as SQL text.
type CountCursor struct {
	ViewCount int64     `json:"viewCount"`
	ID        uuid.UUID `json:"id"`
}

func (CountCursor) CursorKind() string { return "count" }

func (c *CountCursor) Scope(orderExpr, idCol string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if c == nil {
			return db
		}
		cond := fmt.Sprintf("%s < ? OR (%s = ? AND %s < ?)", orderExpr, orderExpr, idCol)
		return db.Where(cond, c.ViewCount, c.ViewCount, c.ID)
	}
}

// OrderDesc fixes the total traversal order: primary sort expression
// descending, then id descending.
func OrderDesc(orderExpr, idCol string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(fmt.Sprintf("%s DESC, %s DESC", orderExpr, idCol))
	}
}

// Probe limits the query to limit+1 rows so Resolve can detect whether more
// rows exist without a second count query.
func Probe(limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(limit + 1)
	}
}

var errEmptyCursor = errors.New("empty cursor")
