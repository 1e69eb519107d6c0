package extractor

// Status is the lifecycle state of an extraction job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status is final. Terminal states are sticky:
// once reached, a job never leaves them.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}
