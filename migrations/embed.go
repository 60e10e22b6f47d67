// Package migrations holds the goose SQL migrations: the schema and the
// seeded continents. The server applies them on startup and the integration
// tests apply them in TestMain.
package migrations

import "embed"

// FS holds every *.sql migration, for goose.NewProvider.
//
//go:embed *.sql
var FS embed.FS
