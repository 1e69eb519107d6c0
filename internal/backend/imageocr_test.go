package backend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/extractd/internal/extractor"
)

// fakeRunner stubs external binaries.
type fakeRunner struct {
	stdout []byte
	err    error

	lastName string
	lastArgs []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.lastName = name
	f.lastArgs = args
	return f.stdout, nil, f.err
}

func newTestImageOCR(r Runner) *ImageOCR {
	return &ImageOCR{
		cfg:    ImageOCRConfig{Tesseract: "tesseract", Language: "eng"},
		runner: r,
		log:    testLogger(),
	}
}

func TestNewImageOCR_MissingBinaryNamesTheDependency(t *testing.T) {
	_, err := NewImageOCR(ImageOCRConfig{Tesseract: "definitely-not-a-real-binary-9000"}, nil)
	if !errors.Is(err, extractor.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "definitely-not-a-real-binary-9000") {
		t.Errorf("error should name the missing binary: %v", err)
	}
}

func TestImageOCR_SingleUnitResult(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("  Total due: 12,90 EUR\n")}
	b := newTestImageOCR(runner)

	sub, err := b.Read(context.Background(), extractor.Source{Data: []byte("png-bytes"), Name: "receipt.png"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, ok := sub.Results[1]
	if !ok || len(sub.Results) != 1 {
		t.Fatalf("an image is one unit at index 1, got %v", sub.Results)
	}
	if r.Content[extractor.CategoryText] != "Total due: 12,90 EUR" {
		t.Errorf("unexpected text: %q", r.Content[extractor.CategoryText])
	}
	if r.Metadata["language"] != "eng" {
		t.Errorf("expected default language eng, got %v", r.Metadata["language"])
	}
	if runner.lastName != "tesseract" {
		t.Errorf("expected tesseract invocation, got %q", runner.lastName)
	}
}

func TestImageOCR_LanguageOption(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("text")}
	b := newTestImageOCR(runner)

	_, err := b.Read(context.Background(), extractor.Source{Data: []byte("x")}, extractor.Options{
		extractor.OptLanguage: "deu",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined := strings.Join(runner.lastArgs, " ")
	if !strings.Contains(joined, "-l deu") {
		t.Errorf("expected -l deu in args, got %q", joined)
	}
}

func TestImageOCR_BinaryFailureFoldsIntoResult(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	b := newTestImageOCR(runner)

	sub, err := b.Read(context.Background(), extractor.Source{Data: []byte("x")}, nil)
	if err != nil {
		t.Fatalf("Read must not propagate the binary failure, got %v", err)
	}
	r, ok := sub.Results[1]
	if !ok {
		t.Fatalf("expected degenerate unit 1, got %v", sub.Results)
	}
	if !strings.Contains(r.Metadata[extractor.MetaError].(string), "tesseract") {
		t.Errorf("expected tesseract failure in metadata, got %v", r.Metadata[extractor.MetaError])
	}
}

func TestImageOCR_SourceWithoutDataFolds(t *testing.T) {
	b := newTestImageOCR(&fakeRunner{})
	sub, err := b.Read(context.Background(), extractor.Source{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Results[1].Metadata[extractor.MetaError] == nil {
		t.Error("expected error metadata for empty source")
	}
}
