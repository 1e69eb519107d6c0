package backend

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/dgallion1/extractd/internal/extractor"
)

const imageOCRName = "image-ocr"

// ImageOCRConfig configures the local tesseract backend.
type ImageOCRConfig struct {
	Tesseract string // binary name or path; empty means "tesseract"
	Language  string // default OCR language, overridable per call
	PSM       int    // page segmentation mode, 0 = tesseract default
}

// ImageOCR runs tesseract on a single image. Sync; an image is one unit,
// indexed 1. Honors the language option.
type ImageOCR struct {
	lastResult

	cfg    ImageOCRConfig
	runner Runner
	log    *slog.Logger
}

// NewImageOCR fails with ErrBackendUnavailable when the tesseract binary is
// not on PATH. The registry surfaces that to the caller on first resolution.
func NewImageOCR(cfg ImageOCRConfig, log *slog.Logger) (*ImageOCR, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if _, err := exec.LookPath(cfg.Tesseract); err != nil {
		return nil, fmt.Errorf("%w: tesseract binary %q not found", extractor.ErrBackendUnavailable, cfg.Tesseract)
	}
	return &ImageOCR{
		cfg:    cfg,
		runner: execRunner{log: log},
		log:    log,
	}, nil
}

func (b *ImageOCR) Describe() extractor.Descriptor {
	return extractor.Descriptor{
		Name:        imageOCRName,
		Mode:        extractor.ModeSync,
		Categories:  []string{extractor.CategoryText},
		Description: "Local image OCR via tesseract.",
	}
}

func (b *ImageOCR) Read(ctx context.Context, src extractor.Source, opts extractor.Options) (extractor.Submission, error) {
	lang := opts.String(extractor.OptLanguage, b.cfg.Language)

	fail := func(err error) (extractor.Submission, error) {
		b.log.Error("image ocr failed", "source", src.Name, "error", err)
		rs := extractor.FailureSet(imageOCRName, 1, err)
		b.store(rs)
		return extractor.Submission{Results: rs}, nil
	}

	path, cleanup, err := sourcePath(src, "extractd-img-*")
	if err != nil {
		return fail(err)
	}
	defer cleanup()

	args := []string{path, "stdout", "-l", lang}
	if b.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprint(b.cfg.PSM))
	}
	out, _, err := b.runner.Run(ctx, b.cfg.Tesseract, args...)
	if err != nil {
		return fail(fmt.Errorf("tesseract: %w", err))
	}

	text := strings.TrimSpace(string(out))
	r := extractor.NewResult(imageOCRName, 1, extractor.CategoryText)
	r.Content[extractor.CategoryText] = text
	r.Metadata[extractor.MetaCharCount] = len(text)
	r.Metadata["language"] = lang

	rs := extractor.ResultSet{1: r}
	b.store(rs)
	b.log.Info("image ocr done", "source", src.Name, "chars", len(text))
	return extractor.Submission{Results: rs}, nil
}
