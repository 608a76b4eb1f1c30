package migrations

import "embed"

// Schema migrations ship inside the binary so a fresh deployment only
// needs a database URL, never a migrations directory on disk.
//
//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
