// Command cardgen renders, exports, serves and inspects business cards.
//
// Usage:
//
//	cardgen generate -u <user-id> [options]
//	cardgen render [options] <data.json>
//	cardgen preview [options] <event>...
//	cardgen serve [options]
//	cardgen inspect [options] <file.pdf>
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	json "github.com/goccy/go-json"

	bizcard "github.com/porticus-lab/go-bizcard"
	"github.com/porticus-lab/go-bizcard/internal/config"
	"github.com/porticus-lab/go-bizcard/internal/logging"
	"github.com/porticus-lab/go-bizcard/internal/pdfcheck"
	"github.com/porticus-lab/go-bizcard/internal/server"
	"github.com/porticus-lab/go-bizcard/internal/staff"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(os.Args[2:])
	case "render":
		err = runRender(os.Args[2:])
	case "preview":
		err = runPreview(os.Args[2:], os.Stdout)
	case "serve":
		err = runServe(os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:], os.Stdout)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`cardgen - business card generator

Usage:
  cardgen <command> [options]

Commands:
  generate  Fetch a user's card data and export it as an A4 PDF
  render    Render one face of a card as HTML or PNG
  preview   Play a gesture script against the preview dialog
  serve     Start the preview and export HTTP server
  inspect   Report the pages, images and fonts of an exported PDF
  help      Show this help message

Generate options:
  -u <id>        User id to fetch card data for
  -d <file>      Export card data from a JSON file instead of the API ("-" for stdin)
  -v <variant>   Card variant: classic or modern (default: classic)
  -t <color>     Theme color as #RRGGBB (default: theme.color)
  -o <file>      Output file (default: <dir>/business-card-<variant>-a4.pdf)
  -dir <dir>     Output directory (default: .)
  -c <file>      Config file

Render options:
  -v <variant>   Card variant: classic or modern (default: classic)
  -s <side>      Card side: front or back (default: front)
  -f <format>    Output format: html, png or pdf (default: html)
  -r <ratio>     Pixel ratio for png output, at most 8 (default: 3)
  -o <file>      Output file (default: stdout)
  -c <file>      Config file (browser settings for pdf output)

Preview options:
  -delay <dur>   Flip animation length (default: 600ms)
  Events: open, close, toggle, front, back, classic, modern, tap,
          swipe-left, swipe-right, wait:<duration>

Serve options:
  -addr <addr>   Listen address (default: server.addr)
  -c <file>      Config file

Inspect options:
  -json          Write the report as JSON

Configuration is read from the optional config file, a .env file and
BIZCARD_* environment variables, e.g. BIZCARD_API_BASE_URL.

Examples:
  cardgen generate -u 42 -v modern
  cardgen render -v modern -s back -f png -o back.png card.json
  cardgen preview open toggle wait:700ms swipe-right
  cardgen inspect business-card-classic-a4.pdf
`)
}

// runGenerate implements the "generate" command.
func runGenerate(args []string) error {
	var (
		userID, dataFile, theme, outputFile, configFile string
		outputDir                                       = "."
		variantName                                     = string(bizcard.Classic)
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-u":
			i++
			if i >= len(args) {
				return fmt.Errorf("-u requires a value")
			}
			userID = args[i]
		case "-d":
			i++
			if i >= len(args) {
				return fmt.Errorf("-d requires a value")
			}
			dataFile = args[i]
		case "-v":
			i++
			if i >= len(args) {
				return fmt.Errorf("-v requires a value")
			}
			variantName = args[i]
		case "-t":
			i++
			if i >= len(args) {
				return fmt.Errorf("-t requires a value")
			}
			theme = args[i]
		case "-o":
			i++
			if i >= len(args) {
				return fmt.Errorf("-o requires a value")
			}
			outputFile = args[i]
		case "-dir":
			i++
			if i >= len(args) {
				return fmt.Errorf("-dir requires a value")
			}
			outputDir = args[i]
		case "-c":
			i++
			if i >= len(args) {
				return fmt.Errorf("-c requires a value")
			}
			configFile = args[i]
		default:
			return fmt.Errorf("unknown option: %s", args[i])
		}
	}
	if userID == "" && dataFile == "" {
		return fmt.Errorf("one of -u or -d is required")
	}
	variant, err := bizcard.ParseVariant(variantName)
	if err != nil {
		return err
	}

	cfg, logger, closeLog, err := setup(configFile)
	if err != nil {
		return err
	}
	defer closeLog.Close()
	if theme == "" {
		theme = cfg.Theme.Color
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, closeGen, err := newGenerator(cfg, logger)
	if err != nil {
		return err
	}
	defer closeGen()

	var doc *bizcard.Document
	if dataFile != "" {
		d, err := readCardData(dataFile)
		if err != nil {
			return err
		}
		if d.ThemeColor == "" {
			d.ThemeColor = theme
		}
		doc, err = gen.Export(ctx, d, variant)
		if err != nil {
			return fmt.Errorf("%s: %w", bizcard.UserMessage(err), err)
		}
	} else {
		doc, err = gen.GenerateAndExport(ctx, userID, theme, variant)
		if err != nil {
			return fmt.Errorf("%s: %w", bizcard.UserMessage(err), err)
		}
	}

	path := outputFile
	if path != "" {
		if err := doc.WriteToFile(path, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	} else if path, err = doc.Save(outputDir); err != nil {
		return err
	}
	fmt.Printf("Saved %s (%d bytes)\n", path, doc.Len())
	return nil
}

// runRender implements the "render" command. It needs neither the API nor
// a browser.
func runRender(args []string) error {
	var (
		inputFile, outputFile string
		configFile            string
		variantName           = string(bizcard.Classic)
		sideName              = string(bizcard.Front)
		format                = "html"
		ratio                 = bizcard.DefaultPixelRatio
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-v":
			i++
			if i >= len(args) {
				return fmt.Errorf("-v requires a value")
			}
			variantName = args[i]
		case "-s":
			i++
			if i >= len(args) {
				return fmt.Errorf("-s requires a value")
			}
			sideName = args[i]
		case "-f":
			i++
			if i >= len(args) {
				return fmt.Errorf("-f requires a value")
			}
			format = args[i]
		case "-r":
			i++
			if i >= len(args) {
				return fmt.Errorf("-r requires a value")
			}
			r, err := strconv.ParseFloat(args[i], 64)
			if err != nil || r <= 0 || r > bizcard.MaxPixelRatio {
				return fmt.Errorf("invalid pixel ratio %q", args[i])
			}
			ratio = r
		case "-o":
			i++
			if i >= len(args) {
				return fmt.Errorf("-o requires a value")
			}
			outputFile = args[i]
		case "-c":
			i++
			if i >= len(args) {
				return fmt.Errorf("-c requires a value")
			}
			configFile = args[i]
		default:
			if inputFile != "" {
				return fmt.Errorf("unexpected argument: %s", args[i])
			}
			inputFile = args[i]
		}
	}
	if inputFile == "" {
		return fmt.Errorf("no input file specified")
	}

	variant, err := bizcard.ParseVariant(variantName)
	if err != nil {
		return err
	}
	side, err := bizcard.ParseSide(sideName)
	if err != nil {
		return err
	}
	d, err := readCardData(inputFile)
	if err != nil {
		return err
	}
	face, err := bizcard.Render(d, side, variant)
	if err != nil {
		return err
	}

	var out []byte
	switch format {
	case "html":
		page, err := bizcard.PreviewPage(face)
		if err != nil {
			return err
		}
		out = []byte(page)
	case "png":
		opts := bizcard.DefaultCaptureOptions()
		opts.PixelRatio = ratio
		out, err = bizcard.RasterCapturer{}.Capture(context.Background(), face, opts)
		if err != nil {
			return err
		}
	case "pdf":
		out, err = printFace(face, configFile)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if outputFile == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(outputFile, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputFile, err)
	}
	return nil
}

// printFace prints one face at its physical size through the browser.
func printFace(face *bizcard.Face, configFile string) ([]byte, error) {
	cfg, logger, closeLog, err := setup(configFile)
	if err != nil {
		return nil, err
	}
	defer closeLog.Close()

	page, err := bizcard.CardPageHTML(face)
	if err != nil {
		return nil, err
	}
	conv, err := bizcard.NewConverter(converterOptions(cfg.Chrome, logger)...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()

	return conv.PrintHTML(context.Background(), page, &bizcard.PageConfig{
		Size:            bizcard.CardPage,
		NoMargin:        true,
		PrintBackground: true,
	})
}

// runServe implements the "serve" command.
func runServe(args []string) error {
	var addr, configFile string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-addr":
			i++
			if i >= len(args) {
				return fmt.Errorf("-addr requires a value")
			}
			addr = args[i]
		case "-c":
			i++
			if i >= len(args) {
				return fmt.Errorf("-c requires a value")
			}
			configFile = args[i]
		default:
			return fmt.Errorf("unknown option: %s", args[i])
		}
	}

	cfg, logger, closeLog, err := setup(configFile)
	if err != nil {
		return err
	}
	defer closeLog.Close()
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, closeGen, err := newGenerator(cfg, logger)
	if err != nil {
		return err
	}
	defer closeGen()

	opts := []server.Option{
		server.WithDefaultTheme(cfg.Theme.Color),
		server.WithCaptureOptions(cfg.Capture.Options()),
	}
	if c := gen.capturer; c != nil {
		opts = append(opts, server.WithCapturer(c))
	}
	return server.New(gen, logger, opts...).Run(ctx, addr)
}

// runInspect implements the "inspect" command.
func runInspect(args []string, out io.Writer) error {
	var inputFile string
	asJSON := false
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-json":
			asJSON = true
		default:
			if inputFile != "" {
				return fmt.Errorf("unexpected argument: %s", args[i])
			}
			inputFile = args[i]
		}
	}
	if inputFile == "" {
		return fmt.Errorf("no input file specified")
	}

	data, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputFile, err)
	}
	r, err := pdfcheck.Inspect(data)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", inputFile, err)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	}

	fmt.Fprintf(out, "File:    %s\n", inputFile)
	fmt.Fprintf(out, "Version: PDF-%s\n", r.Version)
	fmt.Fprintf(out, "Size:    %d bytes\n", r.Size)
	fmt.Fprintf(out, "Pages:   %d\n", len(r.Pages))
	fmt.Fprintf(out, "Images:  %d\n", len(r.VisibleImages()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Page dimensions:")
	for i, pg := range r.Pages {
		fmt.Fprintf(out, "  Page %d: %.1f x %.1f mm, %d image(s)\n", i+1, pg.WidthMM(), pg.HeightMM(), pg.Images)
	}
	for _, im := range r.VisibleImages() {
		fmt.Fprintf(out, "  Image %d: %d x %d px (%s)\n", im.Object, im.Width, im.Height, im.Filter)
	}
	for _, f := range r.Fonts {
		fmt.Fprintf(out, "  Font: %s\n", f)
	}
	return nil
}

// setup loads the configuration and builds the process logger.
func setup(configFile string) (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closer, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closer, nil
}

// generator is a bizcard.Generator together with the capturer it was
// built with, which the server reuses for its image endpoint.
type generator struct {
	*bizcard.Generator
	capturer bizcard.Capturer
}

// newGenerator starts the browser and wires the staff client and the
// configured capture mode into a Generator.
func newGenerator(cfg *config.Config, logger *slog.Logger) (*generator, func(), error) {
	conv, err := bizcard.NewConverter(converterOptions(cfg.Chrome, logger)...)
	if err != nil {
		return nil, nil, err
	}
	client := staff.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout, logger)

	capturer := capturerFor(cfg.Capture.Mode, conv)
	opts := []bizcard.GeneratorOption{
		bizcard.WithGeneratorLogger(logger),
		bizcard.WithCaptureOptions(cfg.Capture.Options()),
		bizcard.WithLogoLoader(client),
	}
	if capturer != nil {
		opts = append(opts, bizcard.WithCapturer(capturer))
	}

	g := &generator{
		Generator: bizcard.NewGenerator(client, conv, opts...),
		capturer:  capturer,
	}
	return g, func() { conv.Close() }, nil
}

func converterOptions(c config.ChromeConfig, logger *slog.Logger) []bizcard.Option {
	opts := []bizcard.Option{
		bizcard.WithTimeout(c.Timeout),
		bizcard.WithLogger(logger),
	}
	if c.Path != "" {
		opts = append(opts, bizcard.WithChromePath(c.Path))
	}
	if c.NoSandbox {
		opts = append(opts, bizcard.WithNoSandbox())
	}
	if c.AutoDownload {
		opts = append(opts, bizcard.WithAutoDownload())
	}
	return opts
}

// capturerFor returns the capturer of a capture mode, or nil for
// config.CaptureNone.
func capturerFor(mode string, conv *bizcard.Converter) bizcard.Capturer {
	switch mode {
	case config.CaptureChrome:
		return conv
	case config.CaptureRaster:
		return bizcard.RasterCapturer{}
	}
	return nil
}

// readCardData decodes a CardData JSON document from path, or from stdin
// when path is "-".
func readCardData(path string) (bizcard.CardData, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return bizcard.CardData{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var d bizcard.CardData
	if err := json.Unmarshal(data, &d); err != nil {
		return bizcard.CardData{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return d, nil
}

func parseDuration(flag, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", flag, v)
	}
	return d, nil
}
