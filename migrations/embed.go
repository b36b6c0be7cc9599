// Package migrations embeds the SQL schema migrations so that binaries can
// migrate without the source tree.
package migrations

import "embed"

// FS holds every NNNNNN_name.up.sql / .down.sql pair
//
//go:embed *.sql
var FS embed.FS
