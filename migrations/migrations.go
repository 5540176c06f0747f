// Package migrations embeds the SQL migration files so they can be applied
// at startup and from the integration tests.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
