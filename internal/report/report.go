// Package report serializes the outcome of a rename run so it can be
// inspected after the fact. Reports are written to a path the user names,
// never into the source or destination directory implicitly.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/divyekant/pdfrename/internal/pipeline"
)

// Version is bumped whenever the report layout changes.
const Version = "1.0"

// ErrUnknownFormat is returned for report paths that are neither YAML nor JSON.
var ErrUnknownFormat = errors.New("report: unknown format (use .yaml, .yml or .json)")

// Entry records one source file.
type Entry struct {
	Source string `json:"source" yaml:"source"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	Status string `json:"status" yaml:"status"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary counts outcomes by kind.
type Summary struct {
	Total   int `json:"total" yaml:"total"`
	Moved   int `json:"moved" yaml:"moved"`
	Planned int `json:"planned,omitempty" yaml:"planned,omitempty"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// Report is the on-disk shape of a run.
type Report struct {
	Version     string    `json:"version" yaml:"version"`
	Source      string    `json:"source" yaml:"source"`
	Destination string    `json:"destination" yaml:"destination"`
	Strategy    string    `json:"strategy" yaml:"strategy"`
	DryRun      bool      `json:"dry_run" yaml:"dry_run"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time `json:"finished_at" yaml:"finished_at"`
	Summary     Summary   `json:"summary" yaml:"summary"`
	Files       []Entry   `json:"files" yaml:"files"`
}

// FromResult converts a pipeline result into a report.
func FromResult(r *pipeline.Result) *Report {
	rep := &Report{
		Version:     Version,
		Source:      r.SourceDir,
		Destination: r.DestDir,
		Strategy:    r.Strategy,
		DryRun:      r.DryRun,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		Summary: Summary{
			Total:   len(r.Outcomes),
			Moved:   r.Moved,
			Planned: r.Planned,
			Skipped: r.Skipped,
		},
		Files: make([]Entry, 0, len(r.Outcomes)),
	}
	for _, o := range r.Outcomes {
		e := Entry{
			Source: o.Source,
			Title:  o.Title,
			Target: o.Target,
			Status: string(o.Status),
		}
		if o.Err != nil {
			e.Error = o.Err.Error()
		}
		rep.Files = append(rep.Files, e)
	}
	return rep
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatFor(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, ErrUnknownFormat
	}
}

// Save writes the report to path, choosing YAML or JSON from the extension.
// It creates the parent directory if it does not already exist.
func (r *Report) Save(path string) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatYAML:
		data, err = yaml.Marshal(r)
	default:
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "report: marshal")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "report: create dir")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "report: write")
	}
	return nil
}

// Load reads a report previously written by Save.
func Load(path string) (*Report, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "report: read")
	}

	var r Report
	switch f {
	case formatYAML:
		err = yaml.Unmarshal(data, &r)
	default:
		err = json.Unmarshal(data, &r)
	}
	if err != nil {
		return nil, errors.Wrap(err, "report: unmarshal")
	}
	return &r, nil
}
