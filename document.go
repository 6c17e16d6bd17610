package bizcard

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ExportFilename returns the download name of an exported card.
func ExportFilename(v Variant) string {
	return fmt.Sprintf("business-card-%s-a4.pdf", v)
}

// Document holds an exported card PDF and provides helpers for common
// output formats such as raw bytes, base64 encoding, and streaming readers.
//
// Its methods may be called any number of times; the data is never modified.
type Document struct {
	data []byte

	// Filename is the suggested download name, see [ExportFilename].
	Filename string
	Variant  Variant
}

// NewDocument wraps PDF bytes produced for variant v.
func NewDocument(data []byte, v Variant) *Document {
	return &Document{data: data, Filename: ExportFilename(v), Variant: v}
}

// Bytes returns the raw PDF content.
func (d *Document) Bytes() []byte {
	return d.data
}

// Base64 returns the PDF encoded as a standard base64 string (RFC 4648),
// suitable for JSON payloads.
func (d *Document) Base64() string {
	return base64.StdEncoding.EncodeToString(d.data)
}

// Reader returns an [*bytes.Reader] over the PDF content.
func (d *Document) Reader() *bytes.Reader {
	return bytes.NewReader(d.data)
}

// WriteTo writes the full PDF content to w. It implements [io.WriterTo].
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.data)
	return int64(n), err
}

// WriteToFile writes the PDF to the file at path, creating it if needed.
func (d *Document) WriteToFile(path string, perm os.FileMode) error {
	return os.WriteFile(path, d.data, perm)
}

// Save writes the PDF into dir under its Filename and returns the path.
func (d *Document) Save(dir string) (string, error) {
	path := filepath.Join(dir, d.Filename)
	if err := d.WriteToFile(path, 0o644); err != nil {
		return "", fmt.Errorf("bizcard: saving %s: %w", d.Filename, err)
	}
	return path, nil
}

// Len returns the size of the PDF in bytes.
func (d *Document) Len() int {
	return len(d.data)
}
