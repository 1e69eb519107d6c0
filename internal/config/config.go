package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Upload limits
	MaxUploadBytes int64

	// Job retention
	JobTTL          time.Duration
	CleanupInterval time.Duration

	// Latency stats window
	StatsWindow time.Duration

	// Local PDF backend
	PDFFallbackPdftotext bool
	PdftotextBin         string

	// Local image OCR backend
	TesseractBin  string
	TesseractLang string
	TesseractPSM  int

	// Remote document-AI backend
	DocAIURL        string
	DocAIKey        string
	DocAIWebhookURL string

	// Remote audio transcription backend
	TranscribeURL         string
	TranscribeKey         string
	TranscribeCallbackURL string
}

func Load() Config {
	return Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("EXTRACTD_API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL:          envDuration("JOB_TTL", 1*time.Hour),
		CleanupInterval: envDuration("JOB_CLEANUP_INTERVAL", 5*time.Minute),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
		PdftotextBin:         envOr("PDFTOTEXT_BIN", "pdftotext"),

		TesseractBin:  envOr("TESSERACT_BIN", "tesseract"),
		TesseractLang: envOr("TESSERACT_LANG", "eng"),
		TesseractPSM:  envInt("TESSERACT_PSM", 0),

		DocAIURL:        os.Getenv("DOCAI_URL"),
		DocAIKey:        os.Getenv("DOCAI_API_KEY"),
		DocAIWebhookURL: os.Getenv("DOCAI_WEBHOOK_URL"),

		TranscribeURL:         os.Getenv("TRANSCRIBE_URL"),
		TranscribeKey:         os.Getenv("TRANSCRIBE_API_KEY"),
		TranscribeCallbackURL: os.Getenv("TRANSCRIBE_CALLBACK_URL"),
	}
}

// Validate checks what the service cannot run without. Remote backend
// settings are deliberately not required here: a missing endpoint or key
// surfaces as "backend unavailable" when that backend is requested.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("EXTRACTD_API_KEY is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.JobTTL <= 0 {
		return fmt.Errorf("JOB_TTL must be positive")
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("JOB_CLEANUP_INTERVAL must be positive")
	}
	if c.StatsWindow <= 0 {
		return fmt.Errorf("STATS_WINDOW must be positive")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
