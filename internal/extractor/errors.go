package extractor

import "errors"

// Sentinel errors for registry and contract violations. These surface to the
// caller immediately; per-document extraction failures do not — they are
// folded into result metadata (see Read).
var (
	// ErrUnknownBackend means the registry has no mapping for the
	// requested extractor type.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrBackendUnavailable means the backend exists but its optional
	// dependency or credential is missing in this deployment. The wrapped
	// message names the missing capability.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNotFound means the job id was never seen by this backend instance.
	ErrNotFound = errors.New("job not found")

	// ErrNotReady means the result was requested before the job succeeded.
	ErrNotReady = errors.New("job not ready")

	// ErrUnsupportedOperation means a webhook call on a backend that does
	// not support webhooks.
	ErrUnsupportedOperation = errors.New("operation not supported")
)
