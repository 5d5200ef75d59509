package sql

import "embed"

// Migrations holds the schema migration files, applied in filename
// order. Every statement is idempotent so reapplying the full set is
// always safe.
//
//go:embed migrations/*.sql
var Migrations embed.FS
