// internal/store/queries.go
package store

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/qustavo/dotsql"
)

//go:embed queries/*.sql
var queriesFS embed.FS

// Queries executes the named SQL statements embedded under queries/.
// dotsql owns the name-to-statement mapping; statements are written with ?
// placeholders and rebound per driver, so the same files serve SQLite and
// PostgreSQL.
type Queries struct {
	dot *dotsql.DotSql
	db  *sqlx.DB
}

// LoadQueries parses every embedded .sql file into one named-query set.
func LoadQueries(db *sqlx.DB) (*Queries, error) {
	files, err := fs.Glob(queriesFS, "queries/*.sql")
	if err != nil {
		return nil, fmt.Errorf("globbing query files: %w", err)
	}

	var combined strings.Builder
	for _, file := range files {
		content, err := queriesFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		combined.Write(content)
		combined.WriteByte('\n')
	}

	dot, err := dotsql.LoadFromString(combined.String())
	if err != nil {
		return nil, fmt.Errorf("parsing query files: %w", err)
	}

	return &Queries{dot: dot, db: db}, nil
}

// raw resolves a statement by name, rebound for the connected driver.
func (q *Queries) raw(name string) (string, error) {
	stmt, err := q.dot.Raw(name)
	if err != nil {
		return "", fmt.Errorf("query not found: %s", name)
	}
	return q.db.Rebind(stmt), nil
}

// Exec runs a named statement and returns its result.
func (q *Queries) Exec(name string, args ...any) (sql.Result, error) {
	stmt, err := q.raw(name)
	if err != nil {
		return nil, err
	}
	return q.db.Exec(stmt, args...)
}

// Get runs a named statement expected to yield one row into dest.
// The driver's no-rows error passes through for callers to classify.
func (q *Queries) Get(name string, dest any, args ...any) error {
	stmt, err := q.raw(name)
	if err != nil {
		return err
	}
	return q.db.Get(dest, stmt, args...)
}

// Select runs a named statement yielding any number of rows into dest.
func (q *Queries) Select(name string, dest any, args ...any) error {
	stmt, err := q.raw(name)
	if err != nil {
		return err
	}
	return q.db.Select(dest, stmt, args...)
}
