// Package migrations embeds the SQL schema migrations so the binary carries
// its own schema and tests can apply it without a filesystem path.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
