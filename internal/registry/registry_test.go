package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dgallion1/extractd/internal/extractor"
)

// fakeBackend is a minimal sync extractor for registry tests.
type fakeBackend struct {
	name string
}

func (f *fakeBackend) Describe() extractor.Descriptor {
	return extractor.Descriptor{Name: f.name, Mode: extractor.ModeSync}
}
func (f *fakeBackend) Read(context.Context, extractor.Source, extractor.Options) (extractor.Submission, error) {
	return extractor.Submission{Results: extractor.ResultSet{}}, nil
}
func (f *fakeBackend) Status(context.Context, string) (extractor.Status, error) {
	return extractor.StatusSucceeded, nil
}
func (f *fakeBackend) Result(context.Context, string) (extractor.ResultSet, error) {
	return extractor.ResultSet{}, nil
}
func (f *fakeBackend) SupportsWebhook() bool { return false }
func (f *fakeBackend) HandleWebhook(context.Context, []byte) (extractor.ResultSet, error) {
	return nil, extractor.ErrUnsupportedOperation
}

func TestRegistry_ResolveIsStable(t *testing.T) {
	r := New(nil)
	r.Register("fake", func() (extractor.Extractor, error) {
		return &fakeBackend{name: "fake"}, nil
	})

	first, err := r.Resolve("fake")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Resolve("fake")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("expected cached instance on second resolution")
	}
	if first.Describe().Name != "fake" {
		t.Errorf("descriptor name drifted: %q", first.Describe().Name)
	}
}

func TestRegistry_UnknownIdentifier(t *testing.T) {
	r := New(nil)
	_, err := r.Resolve("no-such-backend")
	if !errors.Is(err, extractor.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestRegistry_ConstructionIsDeferred(t *testing.T) {
	r := New(nil)
	calls := 0
	r.Register("lazy", func() (extractor.Extractor, error) {
		calls++
		return &fakeBackend{name: "lazy"}, nil
	})

	if calls != 0 {
		t.Fatalf("factory ran at registration time: %d calls", calls)
	}
	if _, err := r.Resolve("lazy"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Resolve("lazy"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one construction, got %d", calls)
	}
}

func TestRegistry_UnavailableBackendRetriesConstruction(t *testing.T) {
	r := New(nil)
	available := false
	r.Register("flaky", func() (extractor.Extractor, error) {
		if !available {
			return nil, fmt.Errorf("%w: tesseract binary not found", extractor.ErrBackendUnavailable)
		}
		return &fakeBackend{name: "flaky"}, nil
	})

	for i := 0; i < 2; i++ {
		_, err := r.Resolve("flaky")
		if !errors.Is(err, extractor.ErrBackendUnavailable) {
			t.Fatalf("expected ErrBackendUnavailable, got %v", err)
		}
	}

	// Dependency shows up; the next resolution succeeds.
	available = true
	ext, err := r.Resolve("flaky")
	if err != nil {
		t.Fatalf("expected success after dependency appeared, got %v", err)
	}
	if ext.Describe().Name != "flaky" {
		t.Errorf("unexpected backend: %q", ext.Describe().Name)
	}
}

// sweepingBackend tracks job-store sweeps for cleanup fan-out tests.
type sweepingBackend struct {
	fakeBackend
	sweeps int
}

func (s *sweepingBackend) CleanupJobs() { s.sweeps++ }

func TestRegistry_CleanupSweepsConstructedBackends(t *testing.T) {
	r := New(nil)
	sweeping := &sweepingBackend{fakeBackend: fakeBackend{name: "sweeping"}}
	r.Register("sweeping", func() (extractor.Extractor, error) { return sweeping, nil })
	r.Register("plain", func() (extractor.Extractor, error) {
		return &fakeBackend{name: "plain"}, nil
	})

	lazy := &sweepingBackend{fakeBackend: fakeBackend{name: "lazy"}}
	r.Register("lazy", func() (extractor.Extractor, error) { return lazy, nil })

	// Only "sweeping" and "plain" get constructed; "lazy" stays a factory.
	if _, err := r.Resolve("sweeping"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Resolve("plain"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.Cleanup()
	r.Cleanup()

	if sweeping.sweeps != 2 {
		t.Errorf("expected 2 sweeps on the constructed backend, got %d", sweeping.sweeps)
	}
	if lazy.sweeps != 0 {
		t.Errorf("cleanup must not construct backends: got %d sweeps", lazy.sweeps)
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := New(nil)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.Register(name, func() (extractor.Extractor, error) {
			return &fakeBackend{name: "x"}, nil
		})
	}

	names := r.Names()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d]: expected %q, got %q", i, want[i], names[i])
		}
	}
}
