// Package pdfrename provides a thin Go SDK for renaming PDFs after their
// first-page title. It wraps the internal packages with a stable API.
package pdfrename

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/divyekant/pdfrename/internal/extract"
	"github.com/divyekant/pdfrename/internal/llm"
	"github.com/divyekant/pdfrename/internal/pipeline"
	"github.com/divyekant/pdfrename/internal/title"
)

// Options configures a rename run. The zero value renames by first line
// with the default length limits.
type Options struct {
	Strategy    string // "first-line" (default) or "model"
	Provider    string // "ollama" (default) or "openai"; model strategy only
	LLMURL      string
	Model       string // defaults to llm.DefaultModel
	APIKey      string
	LLMTimeout  time.Duration
	MaxTokens   int // cap on tokens per title reply; 0 leaves the server default
	MaxTitleLen int
	MaxPathLen  int
	DryRun      bool
	Logger      logrus.FieldLogger
}

// File describes what happened to one source PDF.
type File struct {
	Source string
	Target string
	Title  string
	Status string
	Err    error
}

// Result summarizes a rename run.
type Result struct {
	Moved   int
	Planned int
	Skipped int
	Files   []File
}

// Rename moves every PDF in src into dst under a title-derived name.
func Rename(src, dst string, opts Options) (*Result, error) {
	return RenameContext(context.Background(), src, dst, opts)
}

// RenameContext is Rename with a caller-controlled context. Cancelling it
// stops the run before the next file; the partial result is returned.
func RenameContext(ctx context.Context, src, dst string, opts Options) (*Result, error) {
	var provider llm.Provider
	if opts.Strategy == title.StrategyModel {
		model := opts.Model
		if model == "" {
			model = llm.DefaultModel
		}
		p, err := llm.NewProvider(opts.Provider, llm.Options{
			BaseURL: opts.LLMURL,
			Model:   model,
			APIKey:  opts.APIKey,
			Timeout: opts.LLMTimeout,
		})
		if err != nil {
			return nil, err
		}
		provider = p
	}

	modelOpts := []title.ModelOption{title.WithMaxTokens(opts.MaxTokens)}
	if opts.Logger != nil {
		modelOpts = append(modelOpts, title.WithLogger(opts.Logger))
	}
	strategy, err := title.New(opts.Strategy, provider, modelOpts...)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.Run(ctx, pipeline.Config{
		SourceDir:   src,
		DestDir:     dst,
		Extractor:   extract.NewPDFExtractor(),
		Strategy:    strategy,
		MaxTitleLen: opts.MaxTitleLen,
		MaxPathLen:  opts.MaxPathLen,
		DryRun:      opts.DryRun,
		Logger:      opts.Logger,
	})
	if res == nil {
		return nil, err
	}

	out := &Result{
		Moved:   res.Moved,
		Planned: res.Planned,
		Skipped: res.Skipped,
		Files:   make([]File, 0, len(res.Outcomes)),
	}
	for _, o := range res.Outcomes {
		out.Files = append(out.Files, File{
			Source: o.Source,
			Target: o.Target,
			Title:  o.Title,
			Status: string(o.Status),
			Err:    o.Err,
		})
	}
	return out, err
}
