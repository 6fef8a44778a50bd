package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	appLog "storytimeline/internal/log"
)

// Default capture parameters for a slide.
const (
	DefaultWidth      = 1280
	DefaultHeight     = 1600
	DefaultTimeoutSec = 30
)

// Options defines parameters for a Chromium-based screenshot capture.
type Options struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/print/0".
	URL string

	// OutputPath is where the PNG screenshot will be written.
	OutputPath string

	// Width and Height are the viewport dimensions in pixels. If zero,
	// DefaultWidth / DefaultHeight are used.
	Width  int
	Height int

	// Timeout bounds the entire capture operation.
	Timeout time.Duration
}

// SlideFileName is the export file name of slide index (0-based).
func SlideFileName(index int) string {
	return fmt.Sprintf("slide-%03d.png", index+1)
}

// Func captures one page. CapturePNG is the production implementation;
// tests substitute a fake.
type Func func(ctx context.Context, opts Options) error

// CapturePNG launches a headless Chromium instance via chromedp, navigates
// to opts.URL, waits for `[data-ready="true"]` and writes a full-page PNG.
func CapturePNG(parentCtx context.Context, opts Options) error {
	if opts.URL == "" {
		return fmt.Errorf("capture: URL is required")
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("capture: OutputPath is required")
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(`[data-ready="true"]`, chromedp.ByQuery),
		// Let images and the first video frame paint.
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}

	return nil
}

// ExportOptions drives ExportSlides.
type ExportOptions struct {
	// BaseURL of the running server, e.g. "http://127.0.0.1:8080".
	BaseURL string
	// Dir receives slide-NNN.png files; created if missing.
	Dir string
	// Count is the number of slides.
	Count int

	Width   int
	Height  int
	Timeout time.Duration

	// Capture defaults to CapturePNG.
	Capture Func
}

// ExportSlides captures /print/{i} for every slide. It stops at the first
// failure and returns the paths written so far.
func ExportSlides(ctx context.Context, opts ExportOptions) ([]string, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("capture: BaseURL is required")
	}
	if opts.Count <= 0 {
		return nil, fmt.Errorf("capture: nothing to export")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("capture: create export dir: %w", err)
	}
	run := opts.Capture
	if run == nil {
		run = CapturePNG
	}

	written := make([]string, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		out := filepath.Join(opts.Dir, SlideFileName(i))
		start := time.Now()
		err := run(ctx, Options{
			URL:        fmt.Sprintf("%s/print/%d", opts.BaseURL, i),
			OutputPath: out,
			Width:      opts.Width,
			Height:     opts.Height,
			Timeout:    opts.Timeout,
		})
		if err != nil {
			return written, fmt.Errorf("capture slide %d: %w", i, err)
		}
		appLog.Info("slide exported", "index", i, "path", out, "took", time.Since(start).String())
		written = append(written, out)
	}
	return written, nil
}
