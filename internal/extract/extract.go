// Package extract reads the first-page text of a PDF. Failures never escape
// as Go errors: they are recorded on the returned Document so the rename
// pipeline always has some text to work with.
package extract

import (
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

// Sentinel texts substituted by Document.Content.
const (
	FailedText = "Failed to read the content."
	EmptyText  = "No content found in the PDF."
)

// ErrNoPages is recorded when a PDF parses but has zero pages.
var ErrNoPages = errors.New("extract: document has no pages")

// Document is the extraction result for one PDF.
type Document struct {
	Path string
	// Text is the trimmed first-page text. Empty when Err is set or the page
	// carries no text.
	Text string
	Err  error
}

// Failed reports whether the PDF could not be read.
func (d Document) Failed() bool { return d.Err != nil }

// Content returns Text, or a sentinel string when extraction failed or the
// first page was empty.
func (d Document) Content() string {
	if d.Err != nil {
		return FailedText
	}
	if d.Text == "" {
		return EmptyText
	}
	return d.Text
}

// Extractor turns a PDF path into a Document.
type Extractor interface {
	Extract(path string) Document
}

// ExtractorFunc adapts a plain function to Extractor.
type ExtractorFunc func(path string) Document

func (f ExtractorFunc) Extract(path string) Document { return f(path) }

// PDFExtractor extracts text with github.com/ledongthuc/pdf.
type PDFExtractor struct{}

// NewPDFExtractor creates the default extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (PDFExtractor) Extract(path string) Document {
	text, err := firstPageText(path)
	if err != nil {
		return Document{Path: path, Err: err}
	}
	return Document{Path: path, Text: strings.TrimSpace(text)}
}

// firstPageText opens path and returns the plain text of page 1. The PDF
// reader panics on some malformed inputs; those panics become errors.
func firstPageText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errors.Errorf("extract: %s: reader panic: %v", path, r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "extract: open %s", path)
	}
	defer f.Close()

	if reader.NumPage() < 1 {
		return "", ErrNoPages
	}

	page := reader.Page(1)
	if page.V.IsNull() {
		return "", ErrNoPages
	}

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", errors.Wrap(err, fmt.Sprintf("extract: %s: page 1", path))
	}
	return text, nil
}
