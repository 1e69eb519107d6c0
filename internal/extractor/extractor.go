package extractor

import (
	"context"
)

// Mode tells callers whether Read blocks until results are available
// or returns a job id to poll.
type Mode string

const (
	ModeSync  Mode = "sync"
	ModeAsync Mode = "async"
)

// Descriptor is a backend's static self-description. It is produced once
// per instance and never changes afterwards.
type Descriptor struct {
	Name        string   `json:"name"`
	Mode        Mode     `json:"mode"`
	Categories  []string `json:"categories"`
	Description string   `json:"description"`
}

// Source references the document to extract. Either Path or Data must be
// set; when both are set Path wins.
type Source struct {
	Path string
	Data []byte
	Name string // original filename, used for diagnostics only
}

// Submission is what Read returns. Sync backends fill Results; async
// backends fill JobID and leave Results nil.
type Submission struct {
	JobID   string
	Results ResultSet
}

// Completed reports whether the submission already carries results.
func (s Submission) Completed() bool { return s.Results != nil }

// Extractor is the contract every extraction backend satisfies.
//
// Read never surfaces per-document extraction failures as errors: a source
// that cannot be opened or a remote call that is refused yields a one-unit
// result set whose metadata carries an "error" key. Callers batch many
// documents and a single bad document must not abort the batch. The error
// return is reserved for contract misuse (nil source).
//
// Sync backends behave as already-succeeded jobs: Status reports
// StatusSucceeded for any job id and Result returns the most recent Read
// output. Async backends track jobs by id; Status performs at most one
// bounded probe of the remote service per call and never re-submits work.
type Extractor interface {
	// Describe returns the backend's descriptor. Pure, callable at any time.
	Describe() Descriptor

	// Read triggers extraction. For async backends it returns as soon as
	// the remote service acknowledges the job; it must not block until
	// completion.
	Read(ctx context.Context, src Source, opts Options) (Submission, error)

	// Status reports the current job status. ErrNotFound for a job id this
	// instance has never seen.
	Status(ctx context.Context, jobID string) (Status, error)

	// Result returns the finished result set. ErrNotReady before the job
	// reaches StatusSucceeded, ErrNotFound for an unknown job id.
	Result(ctx context.Context, jobID string) (ResultSet, error)

	// SupportsWebhook reports whether HandleWebhook may be called.
	SupportsWebhook() bool

	// HandleWebhook ingests a callback payload pushed by the remote
	// service. It returns the result set when the payload signals
	// completion, or nil for an intermediate event. ErrUnsupportedOperation
	// when SupportsWebhook is false.
	HandleWebhook(ctx context.Context, payload []byte) (ResultSet, error)
}
