package database

import "embed"

// EmbeddedMigrations, migrations/ dizinindeki SQL dosyalarını binary'ye gömer.
// Open bunu fs.Sub(EmbeddedMigrations, "migrations") ile kullanır.
//
//go:embed migrations/*.sql
var EmbeddedMigrations embed.FS
