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

	"github.com/dgallion1/extractd/internal/extractor"
	"github.com/dgallion1/extractd/internal/extractor/job"
	"github.com/dgallion1/extractd/internal/normalize"
)

// DocAIConfig configures a remote document-AI backend instance. Name and
// Model are bound at registration time: two registry keys can share this
// constructor with different models.
type DocAIConfig struct {
	Name       string
	Model      string
	BaseURL    string
	APIKey     string
	WebhookURL string // registered with every job; empty disables callbacks on the remote side
	JobTTL     time.Duration
	HTTPClient *http.Client
}

// DocAI extracts text and tables from PDFs and images through a remote
// analysis service. Async: Read submits and returns a job id; completion
// arrives via polling or webhook. Page content comes back as markdown with
// tables as HTML fragments, normalized to plain text here.
type DocAI struct {
	cfg    DocAIConfig
	client *http.Client
	jobs   *job.Store
	log    *slog.Logger
}

// NewDocAI fails with ErrBackendUnavailable when the remote endpoint or
// credential is not configured in this deployment.
func NewDocAI(cfg DocAIConfig, log *slog.Logger) (*DocAI, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: doc-ai endpoint not configured", extractor.ErrBackendUnavailable)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: doc-ai api key not configured", extractor.ErrBackendUnavailable)
	}
	if cfg.Name == "" {
		cfg.Name = "doc-ai"
	}
	if cfg.Model == "" {
		cfg.Model = "standard"
	}
	if log == nil {
		log = slog.Default()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &DocAI{
		cfg:    cfg,
		client: client,
		jobs:   job.NewStore(cfg.JobTTL),
		log:    log.With("backend", cfg.Name),
	}, nil
}

func (b *DocAI) Describe() extractor.Descriptor {
	return extractor.Descriptor{
		Name:        b.cfg.Name,
		Mode:        extractor.ModeAsync,
		Categories:  []string{extractor.CategoryText, extractor.CategoryTables},
		Description: fmt.Sprintf("Remote document analysis (model %s), polling and webhook delivery.", b.cfg.Model),
	}
}

func (b *DocAI) SupportsWebhook() bool { return true }

// CleanupJobs evicts terminal jobs past the retention window.
func (b *DocAI) CleanupJobs() { b.jobs.Cleanup() }

// Wire shapes of the remote service.

type docaiSubmitRequest struct {
	Model      string `json:"model"`
	Filename   string `json:"filename,omitempty"`
	Document   string `json:"document"` // base64
	WebhookURL string `json:"webhook_url,omitempty"`
	FirstPage  int    `json:"first_page,omitempty"`
	LastPage   int    `json:"last_page,omitempty"`
	Language   string `json:"language,omitempty"`
}

type docaiPage struct {
	Page       int    `json:"page"`
	Markdown   string `json:"markdown"`
	TablesHTML string `json:"tables_html,omitempty"`
}

// docaiJobBody is both the poll response and the webhook payload.
type docaiJobBody struct {
	JobID  string      `json:"job_id"`
	Status string      `json:"status"` // queued | running | succeeded | failed
	Error  string      `json:"error,omitempty"`
	Pages  []docaiPage `json:"pages,omitempty"`
}

// Read submits the document and returns as soon as the service accepts the
// job. Submission failures fold into a degenerate result set, they do not
// surface as errors.
func (b *DocAI) Read(ctx context.Context, src extractor.Source, opts extractor.Options) (extractor.Submission, error) {
	firstPage := opts.Int(extractor.OptFirstPage, 1)
	if firstPage < 1 {
		firstPage = 1
	}

	fail := func(err error) (extractor.Submission, error) {
		b.log.Error("doc-ai submission failed", "source", src.Name, "error", err)
		return extractor.Submission{Results: extractor.FailureSet(b.cfg.Name, firstPage, err)}, nil
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

	req := docaiSubmitRequest{
		Model:      b.cfg.Model,
		Filename:   src.Name,
		Document:   base64.StdEncoding.EncodeToString(data),
		WebhookURL: b.cfg.WebhookURL,
		FirstPage:  firstPage,
		LastPage:   opts.Int(extractor.OptLastPage, 0),
		Language:   opts.String(extractor.OptLanguage, ""),
	}

	var accepted docaiJobBody
	err := withRetries(ctx, func() error {
		body, err := b.call(ctx, http.MethodPost, "/v1/analyze", req)
		if err != nil {
			return err
		}
		return json.Unmarshal(body, &accepted)
	})
	if err != nil {
		return fail(err)
	}
	if accepted.JobID == "" {
		return fail(fmt.Errorf("service accepted job without an id"))
	}

	// The remote service assigns the job id, so the job cannot be registered
	// before this point. A webhook racing the submit response is rejected as
	// unknown, but the next Status poll recovers the terminal state.
	b.jobs.Put(job.New(accepted.JobID, b.cfg.Name))
	b.log.Info("doc-ai job accepted", "job_id", accepted.JobID, "source", src.Name)
	return extractor.Submission{JobID: accepted.JobID}, nil
}

// Status performs one bounded probe of the remote service and caches the
// outcome. Terminal jobs are never probed again.
func (b *DocAI) Status(ctx context.Context, jobID string) (extractor.Status, error) {
	j, err := b.jobs.Get(jobID)
	if err != nil {
		return "", err
	}
	if st := j.Status(); st.Terminal() {
		return st, nil
	}

	body, err := b.call(ctx, http.MethodGet, "/v1/jobs/"+jobID, nil)
	if err != nil {
		// Transient probe failure: keep last-known state, the caller polls
		// again on its own schedule.
		b.log.Warn("status probe failed", "job_id", jobID, "error", err)
		return j.Status(), nil
	}
	var remote docaiJobBody
	if err := json.Unmarshal(body, &remote); err != nil {
		b.log.Warn("status probe returned malformed body", "job_id", jobID, "error", err)
		return j.Status(), nil
	}

	b.apply(j, remote)
	return j.Status(), nil
}

func (b *DocAI) Result(_ context.Context, jobID string) (extractor.ResultSet, error) {
	j, err := b.jobs.Get(jobID)
	if err != nil {
		return nil, err
	}
	return j.Results()
}

// HandleWebhook ingests a pushed job body. Late and duplicate deliveries on
// a terminal job are no-ops; a duplicate completion returns the stored
// result unchanged.
func (b *DocAI) HandleWebhook(_ context.Context, payload []byte) (extractor.ResultSet, error) {
	var remote docaiJobBody
	if err := json.Unmarshal(payload, &remote); err != nil {
		return nil, fmt.Errorf("malformed webhook payload: %w", err)
	}
	if remote.JobID == "" {
		return nil, fmt.Errorf("webhook payload carries no job id")
	}
	j, err := b.jobs.Get(remote.JobID)
	if err != nil {
		return nil, err
	}

	b.apply(j, remote)

	if j.Status() == extractor.StatusSucceeded {
		return j.Results()
	}
	return nil, nil
}

// apply translates a remote job body into a state transition. The job's own
// methods enforce monotonicity, so a stale or duplicate body cannot regress
// a terminal state.
func (b *DocAI) apply(j *job.Job, remote docaiJobBody) {
	switch remote.Status {
	case "queued":
		// still pending, nothing to record
	case "running":
		j.MarkProcessing()
	case "succeeded":
		if j.Succeed(b.buildResults(remote.Pages)) {
			b.log.Info("doc-ai job succeeded", "job_id", j.ID(), "pages", len(remote.Pages))
		}
	case "failed":
		msg := remote.Error
		if msg == "" {
			msg = "remote service reported failure without detail"
		}
		if j.Fail(msg) {
			b.log.Warn("doc-ai job failed", "job_id", j.ID(), "error", msg)
		}
	default:
		b.log.Warn("unknown remote status", "job_id", j.ID(), "status", remote.Status)
	}
}

// buildResults normalizes remote pages into the result model. Every page the
// service attempted gets a unit, empty ones included.
func (b *DocAI) buildResults(pages []docaiPage) extractor.ResultSet {
	rs := make(extractor.ResultSet, len(pages))
	for _, p := range pages {
		text := normalize.Markdown([]byte(p.Markdown))
		tables := normalize.HTMLTables(p.TablesHTML)

		r := extractor.NewResult(b.cfg.Name, p.Page, extractor.CategoryText, extractor.CategoryTables)
		r.Content[extractor.CategoryText] = text
		r.Content[extractor.CategoryTables] = tables
		r.Metadata[extractor.MetaCharCount] = len(text)
		r.Metadata["model"] = b.cfg.Model
		rs[p.Page] = r
	}
	return rs
}

// call performs one HTTP exchange with the service. 429/5xx become
// retryable errors for the submission path.
func (b *DocAI) call(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		bs, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.cfg.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("doc-ai api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &retryableError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("doc-ai api status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}
