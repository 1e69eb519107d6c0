package registry

import (
	"log/slog"

	"github.com/dgallion1/extractd/internal/backend"
	"github.com/dgallion1/extractd/internal/config"
	"github.com/dgallion1/extractd/internal/extractor"
)

// Standard extractor-type identifiers. Persisted by callers; adding a
// backend appends a constant here, existing values never change.
const (
	KeyPDFText     = "pdf-text"
	KeyImageOCR    = "image-ocr"
	KeyDocAI       = "doc-ai"
	KeyDocAILayout = "doc-ai-layout"
	KeyTranscribe  = "audio-transcribe"
)

// Default builds the standard registry from service configuration. The two
// doc-ai keys share one constructor bound to different models; callers pick
// a key, never a model.
func Default(cfg config.Config, log *slog.Logger) *Registry {
	r := New(log)

	r.Register(KeyPDFText, func() (extractor.Extractor, error) {
		return backend.NewPDFText(backend.PDFTextConfig{
			FallbackPdftotext: cfg.PDFFallbackPdftotext,
			Pdftotext:         cfg.PdftotextBin,
		}, log), nil
	})

	r.Register(KeyImageOCR, func() (extractor.Extractor, error) {
		return backend.NewImageOCR(backend.ImageOCRConfig{
			Tesseract: cfg.TesseractBin,
			Language:  cfg.TesseractLang,
			PSM:       cfg.TesseractPSM,
		}, log)
	})

	docAI := func(name, model string) Factory {
		return func() (extractor.Extractor, error) {
			return backend.NewDocAI(backend.DocAIConfig{
				Name:       name,
				Model:      model,
				BaseURL:    cfg.DocAIURL,
				APIKey:     cfg.DocAIKey,
				WebhookURL: cfg.DocAIWebhookURL,
				JobTTL:     cfg.JobTTL,
			}, log)
		}
	}
	r.Register(KeyDocAI, docAI(KeyDocAI, "standard"))
	r.Register(KeyDocAILayout, docAI(KeyDocAILayout, "layout"))

	r.Register(KeyTranscribe, func() (extractor.Extractor, error) {
		return backend.NewTranscribe(backend.TranscribeConfig{
			BaseURL:     cfg.TranscribeURL,
			APIKey:      cfg.TranscribeKey,
			CallbackURL: cfg.TranscribeCallbackURL,
			JobTTL:      cfg.JobTTL,
		}, log)
	})

	return r
}
