// Package title derives a candidate document title from extracted PDF text.
// Two interchangeable strategies implement Strategy: FirstLine takes the
// first line of the page, Model asks a language model for a name.
package title

import (
	"context"

	"github.com/pkg/errors"

	"github.com/divyekant/pdfrename/internal/extract"
	"github.com/divyekant/pdfrename/internal/llm"
)

// Strategy names accepted by New.
const (
	StrategyFirstLine = "first-line"
	StrategyModel     = "model"
)

// ErrNoTitle means the strategy found nothing to name the file after. The
// pipeline leaves such files in place.
var ErrNoTitle = errors.New("title: no title found")

// Strategy derives a title from an extracted document.
type Strategy interface {
	Name() string
	Derive(ctx context.Context, doc extract.Document) (string, error)
}

// New builds the strategy called name. provider is required for "model"
// and ignored otherwise.
func New(name string, provider llm.Provider, opts ...ModelOption) (Strategy, error) {
	switch name {
	case StrategyFirstLine, "":
		return NewFirstLine(), nil
	case StrategyModel:
		if provider == nil {
			return nil, errors.Errorf("title: strategy %q needs an llm provider", name)
		}
		return NewModel(provider, opts...), nil
	default:
		return nil, errors.Errorf("title: unknown strategy %q (supported: %s, %s)", name, StrategyFirstLine, StrategyModel)
	}
}
