package bizcard

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Converter drives a headless browser to print card documents to PDF and
// to capture card faces as PNG.
//
// The browser process is reused across calls. Every call runs in its own
// tab, so a Converter is safe for concurrent use and a capture never
// touches a page another caller is looking at.
//
// Call [Converter.Close] when the Converter is no longer needed to release
// browser resources.
type Converter struct {
	cfg           converterConfig
	logger        *slog.Logger
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewConverter creates a Converter with the given options.
//
// It starts a headless browser in the background. The caller must call
// [Converter.Close] when finished.
func NewConverter(opts ...Option) (*Converter, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	execPath, err := resolveBrowser(cfg)
	if err != nil {
		return nil, err
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("headless", cfg.headless),
	)
	if execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(execPath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("bizcard: starting browser: %w", err)
	}
	cfg.logger.Debug("browser_started", slog.String("exec_path", execPath))

	return &Converter{
		cfg:           cfg,
		logger:        cfg.logger,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close releases all resources held by the Converter, including the
// browser process. Close is idempotent.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.browserCancel()
	c.allocCancel()
	c.logger.Debug("browser_closed")
	return nil
}

// PrintHTML prints an HTML document to PDF and returns the raw bytes.
// If pg is nil, [DefaultPageConfig] values are used.
func (c *Converter) PrintHTML(ctx context.Context, html string, pg *PageConfig) ([]byte, error) {
	resolved := pg.resolved()
	width, height := resolved.paperDimensions()
	marginTop, marginRight, marginBottom, marginLeft := resolved.marginInches()

	var buf []byte
	err := c.runHTML(ctx, html, func(url string) chromedp.Tasks {
		return chromedp.Tasks{
			chromedp.Navigate(url),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.ActionFunc(func(ctx context.Context) error {
				var err error
				buf, _, err = page.PrintToPDF().
					WithPaperWidth(width).
					WithPaperHeight(height).
					WithMarginTop(marginTop).
					WithMarginRight(marginRight).
					WithMarginBottom(marginBottom).
					WithMarginLeft(marginLeft).
					WithScale(resolved.Scale).
					WithPrintBackground(resolved.PrintBackground).
					WithLandscape(resolved.Orientation == Landscape).
					WithPreferCSSPageSize(resolved.PreferCSSPageSize).
					Do(ctx)
				return err
			}),
		}
	})
	if err != nil {
		return nil, fmt.Errorf("bizcard: printing pdf: %w", err)
	}
	return buf, nil
}

// Capture implements [Capturer]. The face is loaded into a fresh tab at
// screen size and its root element is screenshotted at opts.PixelRatio
// over opts.BackgroundColor.
func (c *Converter) Capture(ctx context.Context, f *Face, opts CaptureOptions) ([]byte, error) {
	o, err := opts.resolved()
	if err != nil {
		return nil, err
	}
	bg, _ := ParseHex(o.BackgroundColor)

	html, err := PreviewPage(f)
	if err != nil {
		return nil, err
	}

	var buf []byte
	err = c.runHTML(ctx, html, func(url string) chromedp.Tasks {
		return chromedp.Tasks{
			chromedp.EmulateViewport(int64(math.Ceil(f.Width)), int64(math.Ceil(f.Height))),
			chromedp.Navigate(url),
			chromedp.WaitVisible("#card", chromedp.ByQuery),
			chromedp.ActionFunc(func(ctx context.Context) error {
				return emulation.SetDefaultBackgroundColorOverride().
					WithColor(&cdp.RGBA{R: int64(bg.R), G: int64(bg.G), B: int64(bg.B), A: 1}).
					Do(ctx)
			}),
			chromedp.ScreenshotScale("#card", o.PixelRatio, &buf, chromedp.ByQuery),
		}
	})
	if err != nil {
		return nil, fmt.Errorf("bizcard: capturing %s face: %w", f.Side, err)
	}
	c.logger.Debug("face_captured",
		slog.String("side", string(f.Side)),
		slog.String("variant", string(f.Variant)),
		slog.Int("bytes", len(buf)),
	)
	return buf, nil
}

// runHTML writes html to a temporary file, opens it in a new tab and runs
// the tasks built for its URL.
func (c *Converter) runHTML(ctx context.Context, html string, tasks func(url string) chromedp.Tasks) error {
	if err := c.checkClosed(); err != nil {
		return err
	}

	f, err := os.CreateTemp("", "bizcard-*.html")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	defer tabCancel()

	// Tie the tab to the caller's deadline.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	return chromedp.Run(tabCtx, tasks("file://"+abs))
}

func (c *Converter) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}
