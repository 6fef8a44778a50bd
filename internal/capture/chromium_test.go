package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSlideFileName(t *testing.T) {
	t.Parallel()

	if got := SlideFileName(0); got != "slide-001.png" {
		t.Fatalf("SlideFileName(0) = %q, want slide-001.png", got)
	}
	if got := SlideFileName(41); got != "slide-042.png" {
		t.Fatalf("SlideFileName(41) = %q, want slide-042.png", got)
	}
}

func TestCapturePNGValidatesOptions(t *testing.T) {
	t.Parallel()

	if err := CapturePNG(context.Background(), Options{OutputPath: "x.png"}); err == nil {
		t.Fatal("expected error for missing URL")
	}
	if err := CapturePNG(context.Background(), Options{URL: "http://x"}); err == nil {
		t.Fatal("expected error for missing OutputPath")
	}
}

func TestExportSlidesVisitsEveryPrintPage(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "slides")
	var urls []string
	fake := func(_ context.Context, opts Options) error {
		urls = append(urls, opts.URL)
		return os.WriteFile(opts.OutputPath, []byte("png"), 0o644)
	}

	written, err := ExportSlides(context.Background(), ExportOptions{
		BaseURL: "http://127.0.0.1:8080",
		Dir:     dir,
		Count:   3,
		Capture: fake,
	})
	if err != nil {
		t.Fatalf("ExportSlides() error = %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("written = %v, want 3 files", written)
	}
	if urls[2] != "http://127.0.0.1:8080/print/2" {
		t.Fatalf("urls[2] = %q", urls[2])
	}
	if _, err := os.Stat(filepath.Join(dir, "slide-003.png")); err != nil {
		t.Fatalf("slide-003.png: %v", err)
	}
}

func TestExportSlidesStopsOnFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("chromium crashed")
	calls := 0
	fake := func(_ context.Context, opts Options) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	}

	written, err := ExportSlides(context.Background(), ExportOptions{
		BaseURL: "http://x",
		Dir:     t.TempDir(),
		Count:   4,
		Capture: fake,
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ExportSlides() error = %v, want %v", err, boom)
	}
	if len(written) != 1 || calls != 2 {
		t.Fatalf("written = %v calls = %d, want 1 file 2 calls", written, calls)
	}
}

func TestExportSlidesRequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := ExportSlides(context.Background(), ExportOptions{Count: 1}); err == nil {
		t.Fatal("expected error")
	}
}
