// Package editor orchestrates bulk edits: it pins search results in
// sessions, previews rule sets against one page without committing, and
// dispatches batch updates to a bounded worker pool that commits changed
// records and collects per-record failures.
package editor

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/metadatalab/revisor/internal/rules"
	"github.com/metadatalab/revisor/internal/schema"
	"github.com/metadatalab/revisor/internal/store"
	"github.com/metadatalab/revisor/internal/types"
)

// RecordStore is the slice of the record store the editor needs.
type RecordStore interface {
	Search(collection, query string, page, size int) (store.SearchResult, error)
	SearchIDs(collection, query string) ([]types.RecordID, error)
	Load(ids []types.RecordID) ([]store.Document, error)
	Commit(doc store.Document) (store.Document, error)
}

// SchemaResolver resolves collection names to their schema documents.
type SchemaResolver interface {
	Resolve(name string) (*schema.Node, error)
}

// Options tunes the editor's paging, batching and session behavior.
// Zero values fall back to the service defaults.
type Options struct {
	PageSize     int
	ChunkSize    int
	Workers      int
	ChunkRetries int
	SessionTTL   time.Duration
	Logger       *zap.Logger
}

// Service is the bulk-edit orchestration layer.
// Thin coordination over the store, the schema registry and the engine.
type Service struct {
	records  RecordStore
	schemas  SchemaResolver
	sessions *Sessions
	jobs     *Jobs
	logger   *zap.Logger

	pageSize     int
	chunkSize    int
	workers      int
	chunkRetries int
}

// NewService creates the orchestration service with its dependencies.
func NewService(records RecordStore, schemas SchemaResolver, opts Options) (*Service, error) {
	if records == nil {
		return nil, fmt.Errorf("records cannot be nil")
	}
	if schemas == nil {
		return nil, fmt.Errorf("schemas cannot be nil")
	}

	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 20
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.ChunkRetries < 0 {
		opts.ChunkRetries = 0
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Service{
		records:      records,
		schemas:      schemas,
		sessions:     NewSessions(opts.SessionTTL),
		jobs:         NewJobs(),
		logger:       opts.Logger,
		pageSize:     opts.PageSize,
		chunkSize:    opts.ChunkSize,
		workers:      opts.Workers,
		chunkRetries: opts.ChunkRetries,
	}, nil
}

// SearchPage is one page of search hits plus the session token pinning
// the full match set for the preview/update calls that follow.
type SearchPage struct {
	Token     types.SessionToken
	Total     int64
	Documents []store.Document
}

// Search runs a substring search over a collection, pins the full set of
// matching IDs in a fresh session, and returns the requested page.
// Unknown collections yield ErrUnknownSchema.
func (s *Service) Search(collection, query string, page, size int) (SearchPage, error) {
	if _, err := s.schemas.Resolve(collection); err != nil {
		return SearchPage{}, err
	}
	if size <= 0 {
		size = s.pageSize
	}

	result, err := s.records.Search(collection, query, page, size)
	if err != nil {
		return SearchPage{}, err
	}
	ids, err := s.records.SearchIDs(collection, query)
	if err != nil {
		return SearchPage{}, err
	}

	token := s.sessions.Put(Session{Collection: collection, Query: query, IDs: ids})
	s.logger.Debug("search pinned",
		zap.String("collection", collection),
		zap.Int("matches", len(ids)))

	return SearchPage{Token: token, Total: result.Total, Documents: result.Documents}, nil
}

// PreviewResult carries mutated record trees aligned with per-record
// error strings; an empty string means the mutated record is valid.
type PreviewResult struct {
	Documents []map[string]any
	Errors    []string
}

// Preview applies a rule set to one page of the session's search without
// committing anything. Each mutated tree is shape-checked against the
// collection schema; apply and shape failures land in the error slot for
// that record while the rest of the page proceeds.
func (s *Service) Preview(token types.SessionToken, spec types.RuleSpec, query string, page, size int) (PreviewResult, error) {
	sess, err := s.sessions.Get(token)
	if err != nil {
		return PreviewResult{}, err
	}
	node, err := s.schemas.Resolve(sess.Collection)
	if err != nil {
		return PreviewResult{}, err
	}
	ruleSet, err := rules.Build(spec)
	if err != nil {
		return PreviewResult{}, err
	}

	if size <= 0 {
		size = s.pageSize
	}
	result, err := s.records.Search(sess.Collection, query, page, size)
	if err != nil {
		return PreviewResult{}, err
	}

	preview := PreviewResult{
		Documents: make([]map[string]any, 0, len(result.Documents)),
		Errors:    make([]string, 0, len(result.Documents)),
	}
	for _, doc := range result.Documents {
		msg := ""
		if _, err := ruleSet.Apply(doc.Tree, node); err != nil {
			msg = err.Error()
		} else if err := schema.Shape(doc.Tree, node); err != nil {
			msg = err.Error()
		}
		preview.Documents = append(preview.Documents, doc.Tree)
		preview.Errors = append(preview.Errors, msg)
	}
	return preview, nil
}

// Update dispatches a batch run of the rule set over the session's full
// match set, minus the excluded IDs. The rule set is validated before
// dispatch so malformed rules fail the request instead of the job.
// Returns the job ID immediately; progress is polled via Job.
func (s *Service) Update(token types.SessionToken, spec types.RuleSpec, excluded []types.RecordID) (types.JobID, error) {
	sess, err := s.sessions.Get(token)
	if err != nil {
		return "", err
	}
	node, err := s.schemas.Resolve(sess.Collection)
	if err != nil {
		return "", err
	}
	if _, err := rules.Build(spec); err != nil {
		return "", err
	}

	skip := make(map[types.RecordID]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}
	ids := make([]types.RecordID, 0, len(sess.IDs))
	for _, id := range sess.IDs {
		if _, ok := skip[id]; ok {
			continue
		}
		ids = append(ids, id)
	}

	job := s.jobs.Create(len(ids))
	s.logger.Info("bulk edit dispatched",
		zap.String("job_id", string(job.ID())),
		zap.String("collection", sess.Collection),
		zap.Int("records", len(ids)),
		zap.Int("excluded", len(excluded)),
		zap.Int("workers", s.workers))

	go s.runBatch(job, spec, node, ids)

	return job.ID(), nil
}

// Job returns the status of a dispatched job.
func (s *Service) Job(id types.JobID) (JobStatus, error) {
	return s.jobs.Status(id)
}
