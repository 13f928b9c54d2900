package pipeline

import "time"

// Status is where a file ended up in the per-file state machine. Only the
// terminal states appear in a Result.
type Status string

const (
	StatusScanned     Status = "scanned"
	StatusExtracted   Status = "extracted"
	StatusMoved       Status = "moved"
	StatusPlanned     Status = "planned"
	StatusNoTitle     Status = "skipped:no-title"
	StatusPathTooLong Status = "skipped:path-too-long"
	StatusMoveError   Status = "skipped:move-error"
	StatusInterrupted Status = "skipped:interrupted"
)

// Skipped reports whether the file was left in the source directory.
func (s Status) Skipped() bool {
	switch s {
	case StatusNoTitle, StatusPathTooLong, StatusMoveError, StatusInterrupted:
		return true
	}
	return false
}

// Reason is the short human label for a skip, empty otherwise.
func (s Status) Reason() string {
	switch s {
	case StatusNoTitle:
		return "no title found"
	case StatusPathTooLong:
		return "path too long"
	case StatusMoveError:
		return "move failed"
	case StatusInterrupted:
		return "interrupted"
	}
	return ""
}

// Outcome records what happened to one source PDF.
type Outcome struct {
	Source string // absolute source path
	Title  string // derived title before sanitizing
	Target string // absolute destination path, when one was resolved
	Status Status
	Err    error
}

// Result holds the output of a pipeline run.
type Result struct {
	SourceDir  string
	DestDir    string
	Strategy   string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time

	Outcomes []Outcome
	Moved    int
	Planned  int
	Skipped  int
}

func (r *Result) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch {
	case o.Status == StatusMoved:
		r.Moved++
	case o.Status == StatusPlanned:
		r.Planned++
	case o.Status.Skipped():
		r.Skipped++
	}
}

// Errors returns the per-file errors recorded during the run.
func (r *Result) Errors() []error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errs
}
