package migrations

import "embed"

// FS holds the SQL migration files applied by Run, in filename order.
//
//go:embed *.sql
var FS embed.FS
