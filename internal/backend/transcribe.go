package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/extractd/internal/extractor"
	"github.com/dgallion1/extractd/internal/extractor/job"
)

const transcribeName = "audio-transcribe"

// TranscribeConfig configures the remote audio transcription backend.
type TranscribeConfig struct {
	BaseURL     string
	APIKey      string
	CallbackURL string // where the service posts completed transcripts
	JobTTL      time.Duration
	HTTPClient  *http.Client
}

// Transcribe sends audio to a remote transcription service. Async and
// webhook-only: the service does not expose a poll endpoint, so Status
// reports last-known cached state and HandleWebhook is the sole mutation
// point. Units are audio segments, 0-based as numbered by the service.
type Transcribe struct {
	cfg    TranscribeConfig
	client *http.Client
	jobs   *job.Store
	log    *slog.Logger

	// newJobID generates the client reference the service echoes back in
	// its callback. Stubbable in tests.
	newJobID func() string
}

// NewTranscribe fails with ErrBackendUnavailable when the service endpoint,
// credential or callback URL is missing; without a callback URL results
// could never be delivered.
func NewTranscribe(cfg TranscribeConfig, log *slog.Logger) (*Transcribe, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: transcription endpoint not configured", extractor.ErrBackendUnavailable)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: transcription api key not configured", extractor.ErrBackendUnavailable)
	}
	if cfg.CallbackURL == "" {
		return nil, fmt.Errorf("%w: transcription callback url not configured", extractor.ErrBackendUnavailable)
	}
	if log == nil {
		log = slog.Default()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Transcribe{
		cfg:      cfg,
		client:   client,
		jobs:     job.NewStore(cfg.JobTTL),
		log:      log.With("backend", transcribeName),
		newJobID: func() string { return uuid.New().String() },
	}, nil
}

func (b *Transcribe) Describe() extractor.Descriptor {
	return extractor.Descriptor{
		Name:        transcribeName,
		Mode:        extractor.ModeAsync,
		Categories:  []string{extractor.CategoryTranscript},
		Description: "Remote audio transcription, webhook delivery only.",
	}
}

func (b *Transcribe) SupportsWebhook() bool { return true }

// CleanupJobs evicts terminal jobs past the retention window.
func (b *Transcribe) CleanupJobs() { b.jobs.Cleanup() }

type transcribeSubmitRequest struct {
	Reference   string `json:"reference"`
	Filename    string `json:"filename,omitempty"`
	Audio       string `json:"audio"` // base64
	CallbackURL string `json:"callback_url"`
	Language    string `json:"language,omitempty"`
}

type transcribeSegment struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// transcribeCallback is the payload the service posts to CallbackURL.
type transcribeCallback struct {
	Reference string              `json:"reference"`
	State     string              `json:"state"` // accepted | transcribing | done | error
	Error     string              `json:"error,omitempty"`
	Segments  []transcribeSegment `json:"segments,omitempty"`
}

// Read submits the audio and returns a job id as soon as the service
// acknowledges. Submission failures fold into a degenerate result set
// indexed at the first expected segment, 0.
func (b *Transcribe) Read(ctx context.Context, src extractor.Source, opts extractor.Options) (extractor.Submission, error) {
	fail := func(err error) (extractor.Submission, error) {
		b.log.Error("transcription submission failed", "source", src.Name, "error", err)
		return extractor.Submission{Results: extractor.FailureSet(transcribeName, 0, err)}, nil
	}

	data := src.Data
	if src.Path != "" {
		var err error
		if data, err = os.ReadFile(src.Path); err != nil {
			return fail(fmt.Errorf("read source: %w", err))
		}
	}
	if len(data) == 0 {
		return fail(fmt.Errorf("source has neither path nor data"))
	}

	jobID := b.newJobID()
	req := transcribeSubmitRequest{
		Reference:   jobID,
		Filename:    src.Name,
		Audio:       base64.StdEncoding.EncodeToString(data),
		CallbackURL: b.cfg.CallbackURL,
		Language:    opts.String(extractor.OptLanguage, ""),
	}

	// The reference is client-generated, so the job can be registered before
	// the submit round-trip. Webhook delivery is the only completion channel;
	// a callback racing the submit response must find the job already there.
	b.jobs.Put(job.New(jobID, transcribeName))

	err := withRetries(ctx, func() error { return b.submit(ctx, req) })
	if err != nil {
		b.jobs.Delete(jobID)
		return fail(err)
	}
	b.log.Info("transcription job accepted", "job_id", jobID, "source", src.Name)
	return extractor.Submission{JobID: jobID}, nil
}

// Status reports last-known state without probing: the service has no poll
// endpoint, completion arrives only through the webhook.
func (b *Transcribe) Status(_ context.Context, jobID string) (extractor.Status, error) {
	j, err := b.jobs.Get(jobID)
	if err != nil {
		return "", err
	}
	return j.Status(), nil
}

func (b *Transcribe) Result(_ context.Context, jobID string) (extractor.ResultSet, error) {
	j, err := b.jobs.Get(jobID)
	if err != nil {
		return nil, err
	}
	return j.Results()
}

// HandleWebhook ingests a callback. Intermediate states return nil; "done"
// returns the transcript result set. Duplicate or late deliveries on a
// terminal job are no-ops.
func (b *Transcribe) HandleWebhook(_ context.Context, payload []byte) (extractor.ResultSet, error) {
	var cb transcribeCallback
	if err := json.Unmarshal(payload, &cb); err != nil {
		return nil, fmt.Errorf("malformed webhook payload: %w", err)
	}
	if cb.Reference == "" {
		return nil, fmt.Errorf("webhook payload carries no job reference")
	}
	j, err := b.jobs.Get(cb.Reference)
	if err != nil {
		return nil, err
	}

	switch cb.State {
	case "accepted":
		// still pending
	case "transcribing":
		j.MarkProcessing()
	case "done":
		if j.Succeed(b.buildResults(cb.Segments)) {
			b.log.Info("transcription done", "job_id", j.ID(), "segments", len(cb.Segments))
		}
		return j.Results()
	case "error":
		msg := cb.Error
		if msg == "" {
			msg = "remote service reported failure without detail"
		}
		if j.Fail(msg) {
			b.log.Warn("transcription failed", "job_id", j.ID(), "error", msg)
		}
	default:
		b.log.Warn("unknown callback state", "job_id", j.ID(), "state", cb.State)
	}
	return nil, nil
}

func (b *Transcribe) buildResults(segments []transcribeSegment) extractor.ResultSet {
	rs := make(extractor.ResultSet, len(segments))
	for _, seg := range segments {
		r := extractor.NewResult(transcribeName, seg.Index, extractor.CategoryTranscript)
		r.Content[extractor.CategoryTranscript] = seg.Text
		r.Metadata[extractor.MetaCharCount] = len(seg.Text)
		r.Metadata["start_sec"] = seg.Start
		r.Metadata["end_sec"] = seg.End
		rs[seg.Index] = r
	}
	return rs
}

func (b *Transcribe) submit(ctx context.Context, payload transcribeSubmitRequest) error {
	bs, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.BaseURL+"/v1/transcriptions", bytes.NewReader(bs))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("transcription api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &retryableError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("transcription api status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return nil
}
