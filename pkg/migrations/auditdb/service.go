// Package auditdb holds all the migrations for the operation audit database
package auditdb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the audit database
var Migrations = migrate.NewMigrations()
