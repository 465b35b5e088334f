// Package db embeds the PostgreSQL schema migrations into the binary.
package db

import "embed"

// MigrationsDir is the directory inside Migrations holding the SQL files.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
