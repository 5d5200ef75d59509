// Package warehouse implements the star-schema persistence layer on
// PostgreSQL: dimension find-or-create, fact inserts, and the ingestion
// bookkeeping tables.
package warehouse

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrTerminalStaging is returned when a status transition targets a
// staging record that is not in the expected prior state. Terminal
// records are never updated again.
var ErrTerminalStaging = errors.New("staging record already finalized")

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

// Store persists dimensions, facts, and ingestion bookkeeping. All
// methods are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps a connection pool in a Store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// nilIfEmpty maps "" to NULL for optional text columns.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
