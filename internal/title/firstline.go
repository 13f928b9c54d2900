package title

import (
	"context"
	"strings"

	"github.com/divyekant/pdfrename/internal/extract"
)

// FirstLine uses the first line of the first page, trimmed, as the title.
type FirstLine struct{}

func NewFirstLine() *FirstLine { return &FirstLine{} }

func (FirstLine) Name() string { return StrategyFirstLine }

// Derive returns ErrNoTitle when extraction failed or the first line is blank.
func (FirstLine) Derive(_ context.Context, doc extract.Document) (string, error) {
	if doc.Failed() {
		return "", ErrNoTitle
	}
	line := strings.TrimSpace(firstLine(doc.Text))
	if line == "" {
		return "", ErrNoTitle
	}
	return line, nil
}

// firstLine returns s up to the first \n or \r.
func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
