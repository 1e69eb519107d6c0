// Package backend implements the concrete extraction backends behind the
// registry: local PDF text and image OCR (sync), and remote document-AI and
// audio transcription services (async).
package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/dgallion1/extractd/internal/extractor"
)

// lastResult is the result cache embedded by sync backends. A sync backend
// holds one live result at a time: Read overwrites the slot and Result
// returns it for any job id. Sync backend instances are single-flight;
// concurrent Read calls on one instance are not supported.
type lastResult struct {
	mu      sync.Mutex
	results extractor.ResultSet
}

func (l *lastResult) store(rs extractor.ResultSet) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = rs
}

// Status always reports succeeded and ignores the job id: a sync backend is
// the degenerate case of the async state machine, already done by the time
// Read returns.
func (l *lastResult) Status(_ context.Context, _ string) (extractor.Status, error) {
	return extractor.StatusSucceeded, nil
}

// Result returns the most recent Read output irrespective of job id.
// ErrNotReady before the first Read.
func (l *lastResult) Result(_ context.Context, _ string) (extractor.ResultSet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.results == nil {
		return nil, fmt.Errorf("%w: no extraction performed yet", extractor.ErrNotReady)
	}
	return l.results, nil
}

// SupportsWebhook is false for all sync backends.
func (l *lastResult) SupportsWebhook() bool { return false }

// HandleWebhook always fails: sync backends have no callback channel.
func (l *lastResult) HandleWebhook(_ context.Context, _ []byte) (extractor.ResultSet, error) {
	return nil, fmt.Errorf("%w: backend does not accept webhooks", extractor.ErrUnsupportedOperation)
}
