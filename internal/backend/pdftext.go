package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/extractd/internal/extractor"
)

const pdfTextName = "pdf-text"

// PDFTextConfig configures the local PDF text backend.
type PDFTextConfig struct {
	// FallbackPdftotext shells out to the pdftotext binary when Go-level
	// extraction fails (encrypted xref tables, exotic encodings).
	FallbackPdftotext bool
	Pdftotext         string // binary name or path; empty means "pdftotext"
}

// PDFText extracts per-page text from PDFs. Sync: Read blocks and returns
// the full result set. Honors the first_page/last_page options.
type PDFText struct {
	lastResult

	cfg    PDFTextConfig
	runner Runner
	log    *slog.Logger

	// extractPages yields the text of every page, stubbable in tests.
	extractPages func(ctx context.Context, path string) ([]string, error)
}

func NewPDFText(cfg PDFTextConfig, log *slog.Logger) *PDFText {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	b := &PDFText{
		cfg:    cfg,
		runner: execRunner{log: log},
		log:    log,
	}
	b.extractPages = b.readPages
	return b
}

func (b *PDFText) Describe() extractor.Descriptor {
	return extractor.Descriptor{
		Name:        pdfTextName,
		Mode:        extractor.ModeSync,
		Categories:  []string{extractor.CategoryText},
		Description: "Local per-page PDF text extraction with optional pdftotext fallback.",
	}
}

func (b *PDFText) Read(ctx context.Context, src extractor.Source, opts extractor.Options) (extractor.Submission, error) {
	first := opts.Int(extractor.OptFirstPage, 1)
	if first < 1 {
		first = 1
	}
	last := opts.Int(extractor.OptLastPage, 0) // 0 = through the end

	fail := func(err error) (extractor.Submission, error) {
		b.log.Error("pdf extraction failed", "source", src.Name, "error", err)
		rs := extractor.FailureSet(pdfTextName, first, err)
		b.store(rs)
		return extractor.Submission{Results: rs}, nil
	}

	path, cleanup, err := sourcePath(src, "extractd-pdf-*.pdf")
	if err != nil {
		return fail(err)
	}
	defer cleanup()

	pages, err := b.extractPages(ctx, path)
	if err != nil {
		return fail(err)
	}
	if last == 0 || last > len(pages) {
		last = len(pages)
	}
	if first > len(pages) {
		return fail(fmt.Errorf("first_page %d beyond document end (%d pages)", first, len(pages)))
	}

	// Every attempted page gets a unit, empty pages included: callers rely
	// on key presence to tell "processed, nothing found" from "never
	// reached".
	rs := make(extractor.ResultSet, last-first+1)
	for i := first; i <= last; i++ {
		text := strings.TrimSpace(pages[i-1])
		r := extractor.NewResult(pdfTextName, i, extractor.CategoryText)
		r.Content[extractor.CategoryText] = text
		r.Metadata[extractor.MetaCharCount] = len(text)
		rs[i] = r
	}
	b.store(rs)
	b.log.Info("pdf extracted", "source", src.Name, "pages", len(rs))
	return extractor.Submission{Results: rs}, nil
}

// readPages tries the Go library first, then falls back to pdftotext if
// enabled.
func (b *PDFText) readPages(ctx context.Context, path string) ([]string, error) {
	pages, err := readPagesGo(path)
	if err != nil && b.cfg.FallbackPdftotext {
		b.log.Warn("go pdf extraction failed, trying pdftotext", "error", err)
		return b.readPagesPdftotext(ctx, path)
	}
	return pages, err
}

func readPagesGo(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, errors.New("pdf has no pages")
	}
	pages := make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages[i-1] = text
	}
	return pages, nil
}

func (b *PDFText) readPagesPdftotext(ctx context.Context, path string) ([]string, error) {
	out, _, err := b.runner.Run(ctx, b.cfg.Pdftotext, "-layout", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext separates pages with form feeds.
	return strings.Split(string(out), "\f"), nil
}
