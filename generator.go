package bizcard

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Fetcher loads the records a card is built from.
type Fetcher interface {
	GetStaff(ctx context.Context, userID string) (*AgentRecord, error)
	CurrentUserAllData(ctx context.Context) (*AllData, error)
}

// LogoLoader inlines a remote company logo, returning a data: URI. Inlined
// logos survive capture and printing without network access.
type LogoLoader interface {
	LoadLogo(ctx context.Context, url string) (string, error)
}

// GeneratorOption configures a [Generator].
type GeneratorOption func(*Generator)

// WithCapturer rasterizes both faces before assembly. Without a capturer
// faces are printed natively.
func WithCapturer(c Capturer) GeneratorOption {
	return func(g *Generator) { g.capturer = c }
}

// WithCaptureOptions overrides [DefaultCaptureOptions].
func WithCaptureOptions(o CaptureOptions) GeneratorOption {
	return func(g *Generator) { g.captureOpts = o }
}

// WithLogoLoader inlines remote logos before export.
func WithLogoLoader(l LogoLoader) GeneratorOption {
	return func(g *Generator) { g.logos = l }
}

// WithGeneratorLogger sets the logger for generation and export events.
func WithGeneratorLogger(l *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// Generator fetches card data for a user and exports it as PDF.
type Generator struct {
	fetcher     Fetcher
	assembler   *Assembler
	capturer    Capturer
	captureOpts CaptureOptions
	logos       LogoLoader
	logger      *slog.Logger
}

// NewGenerator returns a Generator reading through f and printing through p.
func NewGenerator(f Fetcher, p Printer, opts ...GeneratorOption) *Generator {
	g := &Generator{
		fetcher:     f,
		captureOpts: DefaultCaptureOptions(),
		logger:      discardLogger(),
	}
	for _, o := range opts {
		o(g)
	}
	g.assembler = NewAssembler(p, WithAssemblerLogger(g.logger))
	return g
}

// Generate fetches the agent and the company settings of userID
// concurrently and merges them into normalized card data. An empty userID
// fails with [ErrMissingUserContext] before any request is made; a failed
// request fails with a [*FetchError].
func (g *Generator) Generate(ctx context.Context, userID, themeColor string) (CardData, error) {
	if strings.TrimSpace(userID) == "" {
		return CardData{}, ErrMissingUserContext
	}
	start := time.Now()

	var (
		agent *AgentRecord
		all   *AllData
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		a, err := g.fetcher.GetStaff(ctx, userID)
		if err != nil {
			return &FetchError{Op: "staff", Err: err}
		}
		agent = a
		return nil
	})
	eg.Go(func() error {
		d, err := g.fetcher.CurrentUserAllData(ctx)
		if err != nil {
			return &FetchError{Op: "all-data", Err: err}
		}
		all = d
		return nil
	})
	if err := eg.Wait(); err != nil {
		g.logger.Error("card_fetch_failed", slog.String("user_id", userID), slog.Any("error", err))
		return CardData{}, err
	}

	var company *CompanyRecord
	if all != nil {
		company = all.CompanySettings
	}
	d := Normalize(NormalizeInput{
		UserID:     userID,
		Agent:      agent,
		Company:    company,
		ThemeColor: themeColor,
	})
	g.logger.Info("card_generated",
		slog.String("user_id", userID),
		slog.Duration("elapsed", time.Since(start)),
	)
	return d, nil
}

// Export renders d in variant v and assembles the PDF. A remote logo is
// inlined first when a [LogoLoader] is configured; a logo that cannot be
// loaded is dropped with a warning rather than failing the export.
func (g *Generator) Export(ctx context.Context, d CardData, v Variant) (*Document, error) {
	if d == (CardData{}) {
		return nil, ErrNoCardData
	}
	r, err := NewRenderer(v)
	if err != nil {
		return nil, err
	}
	d = g.prepare(ctx, d.Normalize())

	var images *FaceImages
	if g.capturer != nil {
		front, back, err := RenderBoth(r, d)
		if err != nil {
			return nil, err
		}
		images, err = CaptureFaces(ctx, g.capturer, front, back, g.captureOpts)
		if err != nil {
			g.logger.Error("export_failed", slog.String("variant", string(v)), slog.Any("error", err))
			return nil, err
		}
	}

	doc, err := g.assembler.Assemble(ctx, d, v, images)
	if err != nil {
		g.logger.Error("export_failed", slog.String("variant", string(v)), slog.Any("error", err))
		return nil, err
	}
	return doc, nil
}

// GenerateAndExport runs [Generator.Generate] followed by [Generator.Export].
func (g *Generator) GenerateAndExport(ctx context.Context, userID, themeColor string, v Variant) (*Document, error) {
	d, err := g.Generate(ctx, userID, themeColor)
	if err != nil {
		return nil, err
	}
	return g.Export(ctx, d, v)
}

// prepare inlines the company logo.
func (g *Generator) prepare(ctx context.Context, d CardData) CardData {
	if g.logos == nil || d.CompanyLogoURL == "" || strings.HasPrefix(d.CompanyLogoURL, "data:") {
		return d
	}
	uri, err := g.logos.LoadLogo(ctx, d.CompanyLogoURL)
	if err != nil {
		g.logger.Warn("logo_inline_failed", slog.String("url", d.CompanyLogoURL), slog.Any("error", err))
		d.CompanyLogoURL = ""
		return d
	}
	d.CompanyLogoURL = uri
	return d
}
