// Package pdfcheck inspects exported card documents: page count and size,
// embedded images and fonts. It reads objects by scanning the file rather
// than walking the cross-reference table, which is enough for the
// documents the browser prints and tolerant of damaged offsets.
package pdfcheck

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
)

// PointsPerMM converts PDF user space units to millimetres.
const PointsPerMM = 72 / 25.4

// maxInflate bounds a single decompressed stream.
const maxInflate = 64 << 20

// ErrNotPDF is returned for input without a %PDF- header.
var ErrNotPDF = errors.New("pdfcheck: not a pdf document")

// Page describes one page.
type Page struct {
	WidthPt  float64 `json:"width_pt"`
	HeightPt float64 `json:"height_pt"`
	Images   int     `json:"images"`
}

// WidthMM returns the page width in millimetres.
func (p Page) WidthMM() float64 { return p.WidthPt / PointsPerMM }

// HeightMM returns the page height in millimetres.
func (p Page) HeightMM() float64 { return p.HeightPt / PointsPerMM }

// Image describes an image XObject.
type Image struct {
	Object int    `json:"object"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Filter string `json:"filter,omitempty"`
	// Mask is set when the image is only used as another image's soft mask.
	Mask bool `json:"mask"`
}

// Report is the result of [Inspect].
type Report struct {
	Version string   `json:"version"`
	Size    int      `json:"size"`
	Pages   []Page   `json:"pages"`
	Images  []Image  `json:"images"`
	Fonts   []string `json:"fonts"`
}

// VisibleImages returns the images that are not soft masks.
func (r *Report) VisibleImages() []Image {
	var out []Image
	for _, im := range r.Images {
		if !im.Mask {
			out = append(out, im)
		}
	}
	return out
}

var objHeader = regexp.MustCompile(`(?m)(?:^|[\r\n\s])(\d+)\s+(\d+)\s+obj\b`)

// Inspect reads data and reports its structure.
func Inspect(data []byte) (*Report, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, ErrNotPDF
	}
	version := string(bytes.TrimSpace(firstLine(data[len("%PDF-"):])))

	objs, err := scanObjects(data)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, fmt.Errorf("pdfcheck: no objects found")
	}

	r := &Report{Version: version, Size: len(data)}
	doc := &document{objs: objs}

	masks := map[int]bool{}
	fonts := map[string]bool{}
	for _, v := range objs {
		if ref := v.Key("SMask"); ref != nil && ref.Kind == Ref {
			masks[ref.Ref.Num] = true
		}
		if v.NameOf("Type") == "Font" {
			if name := v.NameOf("BaseFont"); name != "" {
				fonts[name] = true
			}
		}
	}

	nums := make([]int, 0, len(objs))
	for n := range objs {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	for _, n := range nums {
		v := objs[n]
		if v.Kind == Stream && v.NameOf("Subtype") == "Image" {
			r.Images = append(r.Images, Image{
				Object: n,
				Width:  int(doc.resolve(v.Key("Width")).Number()),
				Height: int(doc.resolve(v.Key("Height")).Number()),
				Filter: filterName(v),
				Mask:   masks[n],
			})
		}
	}
	for name := range fonts {
		r.Fonts = append(r.Fonts, name)
	}
	sort.Strings(r.Fonts)

	for _, pg := range doc.pages() {
		w, h := doc.mediaBox(pg)
		r.Pages = append(r.Pages, Page{WidthPt: w, HeightPt: h, Images: doc.pageImages(pg)})
	}
	if len(r.Pages) == 0 {
		return nil, fmt.Errorf("pdfcheck: document has no pages")
	}
	return r, nil
}

func firstLine(b []byte) []byte {
	if i := bytes.IndexAny(b, "\r\n"); i >= 0 {
		return b[:i]
	}
	return b
}

// scanObjects collects every "N G obj" in the file, later definitions
// replacing earlier ones as incremental updates do, then expands object
// streams.
func scanObjects(data []byte) (map[int]*Value, error) {
	objs := map[int]*Value{}
	for _, m := range objHeader.FindAllSubmatchIndex(data, -1) {
		num, err := strconv.Atoi(string(data[m[2]:m[3]]))
		if err != nil {
			continue
		}
		p := &parser{buf: data, pos: m[1]}
		v, err := p.value()
		if err != nil {
			return nil, fmt.Errorf("pdfcheck: object %d: %w", num, err)
		}
		objs[num] = v
	}

	var streams []*Value
	for _, v := range objs {
		if v.Kind == Stream && v.NameOf("Type") == "ObjStm" {
			streams = append(streams, v)
		}
	}
	for _, v := range streams {
		if err := expandObjectStream(v, objs); err != nil {
			return nil, err
		}
	}
	return objs, nil
}

func expandObjectStream(stm *Value, objs map[int]*Value) error {
	raw, err := streamData(stm)
	if err != nil {
		return err
	}
	n := int(stm.Key("N").Number())
	first := int(stm.Key("First").Number())
	if first > len(raw) {
		return fmt.Errorf("pdfcheck: object stream offset %d out of range", first)
	}

	head := &parser{buf: raw[:first]}
	for i := 0; i < n; i++ {
		a, err := head.value()
		if err != nil {
			return err
		}
		b, err := head.value()
		if err != nil {
			return err
		}
		if a.Kind != Int || b.Kind != Int {
			break
		}
		body := &parser{buf: raw, pos: first + int(b.Int)}
		v, err := body.value()
		if err != nil {
			return err
		}
		if _, ok := objs[int(a.Int)]; !ok {
			objs[int(a.Int)] = v
		}
	}
	return nil
}

// streamData returns the decoded bytes of a stream. Only FlateDecode is
// supported; image codecs are never decoded here.
func streamData(v *Value) ([]byte, error) {
	switch f := filterName(v); f {
	case "":
		return v.Data, nil
	case "FlateDecode", "Fl":
		zr, err := zlib.NewReader(bytes.NewReader(v.Data))
		if err != nil {
			return nil, fmt.Errorf("pdfcheck: inflate: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(io.LimitReader(zr, maxInflate))
		if err != nil {
			return nil, fmt.Errorf("pdfcheck: inflate: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("pdfcheck: unsupported filter %s", f)
	}
}

func filterName(v *Value) string {
	f := v.Key("Filter")
	if f == nil {
		return ""
	}
	if f.Kind == Array && len(f.Items) > 0 {
		f = f.Items[0]
	}
	if f.Kind == Name {
		return f.Name
	}
	return ""
}

type document struct {
	objs map[int]*Value
}

func (d *document) resolve(v *Value) *Value {
	for i := 0; v != nil && v.Kind == Ref && i < 32; i++ {
		v = d.objs[v.Ref.Num]
	}
	return v
}

// pages walks the page tree from the catalog. Documents without a usable
// catalog fall back to every /Type /Page object in object order.
func (d *document) pages() []*Value {
	var root *Value
	for _, v := range d.objs {
		if v.NameOf("Type") == "Catalog" {
			root = d.resolve(v.Key("Pages"))
			break
		}
	}
	var out []*Value
	seen := map[*Value]bool{}
	var walk func(n *Value, depth int)
	walk = func(n *Value, depth int) {
		if n == nil || seen[n] || depth > 64 {
			return
		}
		seen[n] = true
		if n.NameOf("Type") == "Page" {
			out = append(out, n)
			return
		}
		kids := d.resolve(n.Key("Kids"))
		if kids == nil {
			return
		}
		for _, k := range kids.Items {
			walk(d.resolve(k), depth+1)
		}
	}
	walk(root, 0)
	if len(out) > 0 {
		return out
	}

	nums := make([]int, 0, len(d.objs))
	for n, v := range d.objs {
		if v.NameOf("Type") == "Page" {
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)
	for _, n := range nums {
		out = append(out, d.objs[n])
	}
	return out
}

// inherited looks up key on the page or its ancestors.
func (d *document) inherited(pg *Value, key string) *Value {
	for i := 0; pg != nil && i < 64; i++ {
		if v := d.resolve(pg.Key(key)); v != nil {
			return v
		}
		pg = d.resolve(pg.Key("Parent"))
	}
	return nil
}

func (d *document) mediaBox(pg *Value) (w, h float64) {
	box := d.inherited(pg, "MediaBox")
	if box == nil || len(box.Items) < 4 {
		return 0, 0
	}
	n := func(i int) float64 { return d.resolve(box.Items[i]).Number() }
	return n(2) - n(0), n(3) - n(1)
}

// pageImages counts the image XObjects reachable from the page resources,
// descending into form XObjects.
func (d *document) pageImages(pg *Value) int {
	seen := map[*Value]bool{}
	var count func(res *Value, depth int) int
	count = func(res *Value, depth int) int {
		if res == nil || depth > 16 {
			return 0
		}
		xobjs := d.resolve(res.Key("XObject"))
		if xobjs == nil {
			return 0
		}
		total := 0
		for _, ref := range xobjs.Dict {
			x := d.resolve(ref)
			if x == nil || seen[x] {
				continue
			}
			seen[x] = true
			switch x.NameOf("Subtype") {
			case "Image":
				total++
			case "Form":
				total += count(d.resolve(x.Key("Resources")), depth+1)
			}
		}
		return total
	}
	return count(d.inherited(pg, "Resources"), 0)
}
