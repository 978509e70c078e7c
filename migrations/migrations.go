// Package migrations embeds the goose migration sets for each supported store.
// Directory names match migrator.Apply: "postgres" and "sqlite".
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
