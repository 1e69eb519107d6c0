// Package job tracks the lifecycle of asynchronous extraction jobs:
// pending -> processing -> succeeded | failed. Terminal states are sticky;
// the first writer to reach one wins and later writers are no-ops, which
// makes duplicate webhook deliveries and concurrent polls safe.
package job

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/extractd/internal/extractor"
)

// Job is the tracked state of one asynchronous extraction request.
type Job struct {
	mu sync.Mutex

	id      string
	backend string
	status  extractor.Status
	results extractor.ResultSet
	errMsg  string

	createdAt time.Time
	updatedAt time.Time
}

// New returns a job in StatusPending.
func New(id, backend string) *Job {
	now := time.Now()
	return &Job{
		id:        id,
		backend:   backend,
		status:    extractor.StatusPending,
		createdAt: now,
		updatedAt: now,
	}
}

func (j *Job) ID() string { return j.id }

// Status returns the current status.
func (j *Job) Status() extractor.Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// MarkProcessing moves a pending job to processing. A no-op on jobs that
// are already processing or terminal.
func (j *Job) MarkProcessing() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != extractor.StatusPending {
		return
	}
	j.status = extractor.StatusProcessing
	j.updatedAt = time.Now()
}

// Succeed moves the job to succeeded with its results. Returns false
// without touching anything if the job is already terminal.
func (j *Job) Succeed(results extractor.ResultSet) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status.Terminal() {
		return false
	}
	j.status = extractor.StatusSucceeded
	j.results = results
	j.updatedAt = time.Now()
	return true
}

// Fail moves the job to failed with an error message. Returns false without
// touching anything if the job is already terminal.
func (j *Job) Fail(msg string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status.Terminal() {
		return false
	}
	j.status = extractor.StatusFailed
	j.errMsg = msg
	j.updatedAt = time.Now()
	return true
}

// Results returns the stored result set once the job has succeeded.
// ErrNotReady otherwise; a failed job reports its failure message alongside.
func (j *Job) Results() (extractor.ResultSet, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	switch j.status {
	case extractor.StatusSucceeded:
		return j.results, nil
	case extractor.StatusFailed:
		return nil, fmt.Errorf("%w: job %s failed: %s", extractor.ErrNotReady, j.id, j.errMsg)
	default:
		return nil, fmt.Errorf("%w: job %s is %s", extractor.ErrNotReady, j.id, j.status)
	}
}

// Err returns the failure message, empty unless the job failed.
func (j *Job) Err() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.errMsg
}

func (j *Job) lastUpdated() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.updatedAt
}
