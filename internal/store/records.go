// internal/store/records.go
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/metadatalab/revisor/internal/types"
)

/*
 * Record persistence.
 *
 * Records are serialized JSON trees stored under a time-ordered uuid
 * together with their collection name and an optimistic revision counter.
 * Commit re-serializes the mutated tree and bumps the revision only when
 * the caller still holds the current one, so concurrent batch workers
 * cannot silently overwrite each other. A configurable validator hook
 * runs before the write, so structurally broken trees never reach the
 * database; its failures surface as per-record ValidationErrors that the
 * batch layer collects instead of aborting.
 *
 * Search is an opaque substring match over the serialized source. There
 * is no query language; the serialized form is the search surface.
 */

// defaultPageSize applies when a search request does not name a page size.
const defaultPageSize = 10

// ValidateFunc checks a mutated record tree against its collection's
// schema contract before it is committed.
type ValidateFunc func(collection string, tree map[string]any) error

// Store provides record persistence over an opened database.
type Store struct {
	queries *Queries

	// Validate, when set, runs before every Commit. Failures are reported
	// as *types.ValidationError for the record being committed.
	Validate ValidateFunc
}

// New wraps an opened database in a record store.
func New(db *sqlx.DB) (*Store, error) {
	queries, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	return &Store{queries: queries}, nil
}

// Document is one decoded record: identity, collection, revision and the
// JSON tree the mutation engine operates on.
type Document struct {
	ID         types.RecordID
	Collection string
	Revision   int64
	Tree       map[string]any
}

// SearchResult is one page of matches plus the total match count.
type SearchResult struct {
	Total     int64
	Documents []Document
}

// recordRow mirrors the records table.
type recordRow struct {
	ID         string    `db:"id"`
	Collection string    `db:"collection"`
	Revision   int64     `db:"revision"`
	Source     string    `db:"source"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// document decodes a row into its domain form.
func (r recordRow) document() (Document, error) {
	var tree map[string]any
	if err := json.Unmarshal([]byte(r.Source), &tree); err != nil {
		return Document{}, fmt.Errorf("decoding record %s: %w", r.ID, err)
	}
	return Document{
		ID:         types.RecordID(r.ID),
		Collection: r.Collection,
		Revision:   r.Revision,
		Tree:       tree,
	}, nil
}

// Insert stores a new record tree under a fresh ID at revision 1.
func (s *Store) Insert(collection string, tree map[string]any) (Document, error) {
	source, err := json.Marshal(tree)
	if err != nil {
		return Document{}, fmt.Errorf("encoding record: %w", err)
	}

	id := types.NewRecordID()
	now := time.Now().UTC()
	if _, err := s.queries.Exec("insert-record", string(id), collection, 1, string(source), now, now); err != nil {
		return Document{}, fmt.Errorf("inserting record: %w", err)
	}

	return Document{ID: id, Collection: collection, Revision: 1, Tree: tree}, nil
}

// Get loads one record. Returns ErrRecordNotFound for unknown IDs.
func (s *Store) Get(id types.RecordID) (Document, error) {
	var row recordRow
	if err := s.queries.Get("get-record", &row, string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, fmt.Errorf("record %s: %w", id, types.ErrRecordNotFound)
		}
		return Document{}, fmt.Errorf("loading record %s: %w", id, err)
	}
	return row.document()
}

// Load fetches the given records in the given order. Unknown IDs are
// skipped rather than reported: a record deleted between search and batch
// dispatch is not this caller's failure.
func (s *Store) Load(ids []types.RecordID) ([]Document, error) {
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		doc, err := s.Get(id)
		if errors.Is(err, types.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Commit writes a mutated record tree back, bumping its revision. The
// validator hook runs first; a failed shape check never reaches the
// database. Returns ErrRevisionConflict when the stored revision moved
// past the document's, and ErrRecordNotFound when the record is gone.
func (s *Store) Commit(doc Document) (Document, error) {
	if s.Validate != nil {
		if err := s.Validate(doc.Collection, doc.Tree); err != nil {
			return Document{}, &types.ValidationError{RecordID: doc.ID, Reason: err.Error()}
		}
	}

	source, err := json.Marshal(doc.Tree)
	if err != nil {
		return Document{}, fmt.Errorf("encoding record %s: %w", doc.ID, err)
	}

	res, err := s.queries.Exec("update-record", string(source), time.Now().UTC(), string(doc.ID), doc.Revision)
	if err != nil {
		return Document{}, fmt.Errorf("committing record %s: %w", doc.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Document{}, fmt.Errorf("committing record %s: %w", doc.ID, err)
	}
	if affected == 0 {
		var count int
		if err := s.queries.Get("record-exists", &count, string(doc.ID)); err != nil {
			return Document{}, fmt.Errorf("committing record %s: %w", doc.ID, err)
		}
		if count == 0 {
			return Document{}, fmt.Errorf("record %s: %w", doc.ID, types.ErrRecordNotFound)
		}
		return Document{}, fmt.Errorf("record %s: %w", doc.ID, types.ErrRevisionConflict)
	}

	doc.Revision++
	return doc, nil
}

// Search returns one page of records whose serialized source contains the
// query string, plus the total match count. Pages are 1-based; sizes are
// clamped to types.MaxPageSize. An empty query matches everything.
func (s *Store) Search(collection, query string, page, size int) (SearchResult, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > types.MaxPageSize {
		size = types.MaxPageSize
	}

	var total int64
	if err := s.queries.Get("count-search-records", &total, collection, query); err != nil {
		return SearchResult{}, fmt.Errorf("counting search matches: %w", err)
	}

	var rows []recordRow
	if err := s.queries.Select("search-records", &rows, collection, query, size, (page-1)*size); err != nil {
		return SearchResult{}, fmt.Errorf("searching records: %w", err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.document()
		if err != nil {
			return SearchResult{}, err
		}
		docs = append(docs, doc)
	}

	return SearchResult{Total: total, Documents: docs}, nil
}

// SearchIDs returns the IDs of every record matching the query, in ID
// order. Search sessions pin these so a batch update covers the full
// match set rather than one page of it.
func (s *Store) SearchIDs(collection, query string) ([]types.RecordID, error) {
	var raw []string
	if err := s.queries.Select("search-record-ids", &raw, collection, query); err != nil {
		return nil, fmt.Errorf("searching record ids: %w", err)
	}
	ids := make([]types.RecordID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, types.RecordID(id))
	}
	return ids, nil
}

// Count reports how many records a collection holds.
func (s *Store) Count(collection string) (int64, error) {
	var count int64
	if err := s.queries.Get("count-records", &count, collection); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}
