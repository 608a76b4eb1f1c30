// internal/editor/jobs.go
package editor

import (
	"sync"
	"time"

	"github.com/metadatalab/revisor/internal/types"
)

/*
 * Bulk-edit job tracking.
 *
 * Every update dispatch gets a job that workers feed progress into while
 * the API polls it. Jobs are process-local state: they live for the
 * lifetime of the service and are not persisted, so a restart forgets
 * finished and running jobs alike. The job ID is a UUIDv7, so the start
 * time rides inside the ID and needs no extra bookkeeping.
 */

// JobState names the lifecycle phase of a bulk-edit job.
type JobState string

const (
	// JobStateRunning means workers are still processing chunks.
	JobStateRunning JobState = "running"

	// JobStateCompleted means every chunk has been processed. Per-record
	// failures do not fail the job; they are listed in its errors.
	JobStateCompleted JobState = "completed"
)

// RecordError is one per-record failure collected during a batch run.
type RecordError struct {
	RecordID types.RecordID `json:"recordId"`
	Message  string         `json:"message"`
}

// JobStatus is a point-in-time snapshot of a job.
type JobStatus struct {
	ID         types.JobID   `json:"jobId"`
	State      JobState      `json:"state"`
	Total      int           `json:"total"`
	Processed  int           `json:"processed"`
	Changed    int           `json:"changed"`
	Errors     []RecordError `json:"errors"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt *time.Time    `json:"finishedAt,omitempty"`
}

// Job accumulates the progress of one batch run.
type Job struct {
	id   types.JobID
	done chan struct{}

	mu        sync.Mutex
	state     JobState
	total     int
	processed int
	changed   int
	errors    []RecordError
	finished  *time.Time
}

// ID returns the job's identifier.
func (j *Job) ID() types.JobID {
	return j.id
}

// Status snapshots the job under its lock.
func (j *Job) Status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()

	errs := make([]RecordError, len(j.errors))
	copy(errs, j.errors)

	return JobStatus{
		ID:         j.id,
		State:      j.state,
		Total:      j.total,
		Processed:  j.processed,
		Changed:    j.changed,
		Errors:     errs,
		StartedAt:  types.JobIDTime(j.id),
		FinishedAt: j.finished,
	}
}

// Wait blocks until the job has completed.
func (j *Job) Wait() {
	<-j.done
}

// noteProcessed counts n records as handled without change.
func (j *Job) noteProcessed(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.processed += n
}

// noteChanged counts one record as handled and committed.
func (j *Job) noteChanged() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.processed++
	j.changed++
}

// noteFailure counts one record as handled and records its failure.
func (j *Job) noteFailure(id types.RecordID, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.processed++
	j.errors = append(j.errors, RecordError{RecordID: id, Message: err.Error()})
}

// finish marks the job completed and releases waiters.
func (j *Job) finish() {
	j.mu.Lock()
	now := time.Now().UTC()
	j.state = JobStateCompleted
	j.finished = &now
	j.mu.Unlock()

	close(j.done)
}

// Jobs is the in-memory registry of bulk-edit jobs.
type Jobs struct {
	mu sync.Mutex
	m  map[types.JobID]*Job
}

// NewJobs creates an empty job registry.
func NewJobs() *Jobs {
	return &Jobs{m: make(map[types.JobID]*Job)}
}

// Create registers a running job covering total records.
func (r *Jobs) Create(total int) *Job {
	job := &Job{
		id:    types.NewJobID(),
		done:  make(chan struct{}),
		state: JobStateRunning,
		total: total,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[job.id] = job
	return job
}

// Get returns a registered job. Unknown IDs yield ErrJobNotFound.
func (r *Jobs) Get(id types.JobID) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.m[id]
	if !ok {
		return nil, types.ErrJobNotFound
	}
	return job, nil
}

// Status snapshots a registered job. Unknown IDs yield ErrJobNotFound.
func (r *Jobs) Status(id types.JobID) (JobStatus, error) {
	job, err := r.Get(id)
	if err != nil {
		return JobStatus{}, err
	}
	return job.Status(), nil
}
