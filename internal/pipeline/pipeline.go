// Package pipeline orchestrates a rename run: scan the source directory, then
// for each PDF extract first-page text, derive a title, sanitize it, resolve
// a collision-free name in the destination and move the file. Every per-file
// failure ends in a skip; only pre-flight problems abort the run.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/divyekant/pdfrename/internal/extract"
	"github.com/divyekant/pdfrename/internal/filename"
	"github.com/divyekant/pdfrename/internal/logging"
	"github.com/divyekant/pdfrename/internal/mover"
	"github.com/divyekant/pdfrename/internal/scanner"
	"github.com/divyekant/pdfrename/internal/title"
)

var (
	// ErrSourceMissing is returned when the source directory does not exist.
	ErrSourceMissing = errors.New("pipeline: source directory does not exist")
	// ErrNotDirectory is returned when the source or destination is a file.
	ErrNotDirectory = errors.New("pipeline: not a directory")
)

// snippetLen bounds the extracted text echoed into debug logs.
const snippetLen = 100

// Config holds all the dependencies the pipeline needs.
type Config struct {
	SourceDir string
	DestDir   string
	Extractor extract.Extractor // defaults to extract.PDFExtractor
	Strategy  title.Strategy    // defaults to title.FirstLine
	// MaxTitleLen caps the sanitized stem in runes; 0 means filename.DefaultMaxLen.
	MaxTitleLen int
	// MaxPathLen bounds the full target path; 0 means filename.DefaultMaxPathLen.
	MaxPathLen int
	// DryRun resolves targets without creating or moving anything.
	DryRun     bool
	Logger     logrus.FieldLogger
	ProgressFn func(phase string, done, total int) // optional progress callback
}

// Run executes the rename pipeline. The returned error is non-nil only for
// pre-flight failures (bad source or destination) or context cancellation;
// in the latter case the partial Result is returned alongside it.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	cfg = withDefaults(cfg)
	log := cfg.Logger
	progress := cfg.ProgressFn
	if progress == nil {
		progress = func(string, int, int) {}
	}

	src, dest, err := preflight(cfg)
	if err != nil {
		return nil, err
	}

	scan, err := scanner.Scan(src)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: scan failed")
	}

	result := &Result{
		SourceDir: src,
		DestDir:   dest,
		Strategy:  cfg.Strategy.Name(),
		DryRun:    cfg.DryRun,
		StartedAt: time.Now(),
	}
	defer func() { result.FinishedAt = time.Now() }()

	log.WithFields(logrus.Fields{
		"source":   src,
		"dest":     dest,
		"pdfs":     len(scan.Files),
		"strategy": cfg.Strategy.Name(),
		"dry_run":  cfg.DryRun,
	}).Info("starting rename run")

	// Names reserved by earlier files in a dry run, where nothing lands on disk.
	taken := map[string]bool{}
	total := len(scan.Files)
	progress("rename", 0, total)

	for i, f := range scan.Files {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("run interrupted, remaining files untouched")
			return result, errors.Wrap(err, "pipeline: interrupted")
		}

		o := processFile(ctx, cfg, f, dest, taken)
		result.add(o)

		if o.Status == StatusInterrupted {
			log.WithField("file", f.Name).WithError(o.Err).Warn("run interrupted, file left in place")
			progress("rename", i+1, total)
			return result, errors.Wrap(o.Err, "pipeline: interrupted")
		}

		entry := log.WithFields(logrus.Fields{
			"file":   f.Name,
			"status": o.Status,
		})
		if o.Title != "" {
			entry = entry.WithField("title", o.Title)
		}
		if o.Target != "" {
			entry = entry.WithField("target", filepath.Base(o.Target))
		}
		switch {
		case o.Err != nil:
			entry.WithError(o.Err).Warn("skipped")
		case o.Status.Skipped():
			entry.Warn("skipped")
		case o.Status == StatusPlanned:
			entry.Info("would move")
		default:
			entry.Info("renamed and moved")
		}

		progress("rename", i+1, total)
	}

	return result, nil
}

func withDefaults(cfg Config) Config {
	if cfg.Extractor == nil {
		cfg.Extractor = extract.NewPDFExtractor()
	}
	if cfg.Strategy == nil {
		cfg.Strategy = title.NewFirstLine()
	}
	if cfg.MaxTitleLen == 0 {
		cfg.MaxTitleLen = filename.DefaultMaxLen
	}
	if cfg.MaxPathLen == 0 {
		cfg.MaxPathLen = filename.DefaultMaxPathLen
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	return cfg
}

// preflight validates the source directory and makes sure the destination
// exists, returning both as absolute paths.
func preflight(cfg Config) (src, dest string, err error) {
	src, err = filepath.Abs(cfg.SourceDir)
	if err != nil {
		return "", "", errors.Wrap(err, "pipeline: resolve source")
	}
	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return "", "", errors.Wrapf(ErrSourceMissing, "%q", cfg.SourceDir)
	}
	if err != nil {
		return "", "", errors.Wrap(err, "pipeline: stat source")
	}
	if !info.IsDir() {
		return "", "", errors.Wrapf(ErrNotDirectory, "source %q", cfg.SourceDir)
	}

	dest, err = filepath.Abs(cfg.DestDir)
	if err != nil {
		return "", "", errors.Wrap(err, "pipeline: resolve destination")
	}
	info, err = os.Stat(dest)
	switch {
	case err == nil && !info.IsDir():
		return "", "", errors.Wrapf(ErrNotDirectory, "destination %q", cfg.DestDir)
	case err == nil:
	case os.IsNotExist(err):
		if cfg.DryRun {
			break
		}
		cfg.Logger.WithField("dest", dest).Info("destination directory does not exist, creating it")
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return "", "", errors.Wrap(err, "pipeline: create destination")
		}
	default:
		return "", "", errors.Wrap(err, "pipeline: stat destination")
	}
	return src, dest, nil
}

// processFile walks one PDF through extract, derive, sanitize, unique and
// move. The source file is only touched by the final rename.
func processFile(ctx context.Context, cfg Config, f scanner.FileInfo, dest string, taken map[string]bool) Outcome {
	o := Outcome{Source: f.Path, Status: StatusScanned}
	log := cfg.Logger.WithField("file", f.Name)

	doc := cfg.Extractor.Extract(f.Path)
	if doc.Failed() {
		log.WithError(doc.Err).Warn("could not read PDF")
	} else {
		log.WithField("content", snippet(doc.Content())).Debug("extracted")
	}
	o.Status = StatusExtracted

	t, err := cfg.Strategy.Derive(ctx, doc)
	if ctxErr := ctx.Err(); ctxErr != nil {
		o.Status = StatusInterrupted
		o.Err = ctxErr
		return o
	}
	if err != nil {
		o.Status = StatusNoTitle
		if !errors.Is(err, title.ErrNoTitle) {
			o.Err = err
		}
		return o
	}
	o.Title = t

	stem := filename.Sanitize(t, cfg.MaxTitleLen)
	if stem == "" {
		o.Status = StatusNoTitle
		return o
	}

	name, err := filename.Unique(dest, stem+filename.Ext, taken)
	if err != nil {
		o.Status = StatusMoveError
		o.Err = err
		return o
	}
	o.Target = filepath.Join(dest, name)

	if filename.PathLen(o.Target) > cfg.MaxPathLen {
		o.Status = StatusPathTooLong
		return o
	}

	if cfg.DryRun {
		taken[name] = true
		o.Status = StatusPlanned
		return o
	}

	// Nothing moves once the run is cancelled.
	if ctxErr := ctx.Err(); ctxErr != nil {
		o.Status = StatusInterrupted
		o.Err = ctxErr
		return o
	}

	if err := mover.Move(f.Path, o.Target, cfg.MaxPathLen); err != nil {
		if errors.Is(err, mover.ErrPathTooLong) {
			o.Status = StatusPathTooLong
			return o
		}
		o.Status = StatusMoveError
		o.Err = err
		return o
	}
	o.Status = StatusMoved
	return o
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) <= snippetLen {
		return s
	}
	return string(r[:snippetLen]) + "..."
}
