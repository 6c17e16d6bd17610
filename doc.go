// Package bizcard renders business cards and exports them as print-ready PDF.
//
// A card is built from two records, the staff member and the company
// settings, merged into a [CardData] by [Normalize]. Renderers turn it into
// a [Face] per side, in one of two variants:
//
//	d := bizcard.Normalize(bizcard.NormalizeInput{Agent: agent, Company: company})
//	front, err := bizcard.Render(d, bizcard.Front, bizcard.Modern)
//
// A Face is a plain layout description. [FaceHTML] and [PreviewPage]
// project it to HTML; a [Capturer] rasterizes it to PNG, either in a
// headless browser ([Converter]) or in pure Go ([RasterCapturer]).
//
// # Export
//
// A [Generator] fetches the records for a user and exports the card as one
// A4 page with the front above the back, both at 85.6 x 53.98 mm:
//
//	c, err := bizcard.NewConverter(bizcard.WithNoSandbox())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	g := bizcard.NewGenerator(fetcher, c, bizcard.WithCapturer(c))
//	doc, err := g.GenerateAndExport(ctx, userID, "#1a3a5f", bizcard.Classic)
//	path, err := doc.Save(".") // ./business-card-classic-a4.pdf
//
// Without a capturer the faces are printed natively as HTML, which keeps
// text selectable. Chrome or Chromium must be available in PATH, or use
// [WithAutoDownload].
//
// # Preview
//
// [Reduce] is the state machine of the preview dialog: flips, double taps,
// swipes and variant selection. [Preview] drives it with a real settle
// timer.
//
// Errors that reach a user should be shown through [UserMessage].
package bizcard
