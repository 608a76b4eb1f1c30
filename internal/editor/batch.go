// internal/editor/batch.go
package editor

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/metadatalab/revisor/internal/rules"
	"github.com/metadatalab/revisor/internal/schema"
	"github.com/metadatalab/revisor/internal/store"
	"github.com/metadatalab/revisor/internal/types"
)

/*
 * Batch dispatch.
 *
 * A batch run splits its record IDs into fixed-size chunks and feeds them
 * to a bounded worker pool. Each worker builds its own rule set (the
 * changed flag is per-instance state), loads its chunk, applies the rules
 * and commits changed records one by one. A record that fails — apply
 * error, validation error, revision conflict — lands in the job's error
 * list and the run moves on; partial failure never aborts the batch.
 * Chunk loads are retried a configured number of times before the whole
 * chunk is reported failed.
 */

// retryDelay spaces out chunk load retries.
const retryDelay = 100 * time.Millisecond

// runBatch drives one bulk-edit job to completion.
func (s *Service) runBatch(job *Job, spec types.RuleSpec, node *schema.Node, ids []types.RecordID) {
	defer job.finish()

	eg := new(errgroup.Group)
	eg.SetLimit(s.workers)

	for _, chunk := range chunkIDs(ids, s.chunkSize) {
		eg.Go(func() error {
			s.processChunk(job, spec, node, chunk)
			return nil
		})
	}
	// Workers report failures through the job, never as errors.
	_ = eg.Wait()

	status := job.Status()
	s.logger.Info("bulk edit finished",
		zap.String("job_id", string(job.ID())),
		zap.Int("processed", status.Processed),
		zap.Int("changed", status.Changed),
		zap.Int("failed", len(status.Errors)))
}

// processChunk handles one chunk of records end to end.
func (s *Service) processChunk(job *Job, spec types.RuleSpec, node *schema.Node, ids []types.RecordID) {
	ruleSet, err := rules.Build(spec)
	if err != nil {
		for _, id := range ids {
			job.noteFailure(id, err)
		}
		return
	}

	docs, err := s.loadChunk(ids)
	if err != nil {
		s.logger.Warn("chunk load failed",
			zap.Int("records", len(ids)),
			zap.Error(err))
		for _, id := range ids {
			job.noteFailure(id, err)
		}
		return
	}
	// Records deleted between search and dispatch are skipped by Load;
	// they still count as handled.
	job.noteProcessed(len(ids) - len(docs))

	for _, doc := range docs {
		changed, err := ruleSet.Apply(doc.Tree, node)
		if err != nil {
			job.noteFailure(doc.ID, err)
			continue
		}
		if !changed {
			job.noteProcessed(1)
			continue
		}
		if _, err := s.records.Commit(doc); err != nil {
			job.noteFailure(doc.ID, err)
			continue
		}
		job.noteChanged()
	}
}

// loadChunk loads a chunk of records, retrying transient store failures.
func (s *Service) loadChunk(ids []types.RecordID) ([]store.Document, error) {
	var lastErr error
	for attempt := 0; attempt <= s.chunkRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}
		docs, err := s.records.Load(ids)
		if err == nil {
			return docs, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// chunkIDs splits ids into runs of at most size.
func chunkIDs(ids []types.RecordID, size int) [][]types.RecordID {
	var chunks [][]types.RecordID
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
