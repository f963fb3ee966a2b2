// Package migrations embeds the goose migration files for the postgres
// cart snapshot backend.
package migrations

import "embed"

//go:embed *.sql
var MigrationsFS embed.FS
