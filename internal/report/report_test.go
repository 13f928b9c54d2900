package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divyekant/pdfrename/internal/pipeline"
)

func sampleResult() *pipeline.Result {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &pipeline.Result{
		SourceDir:  "/in",
		DestDir:    "/out",
		Strategy:   "first-line",
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
		Outcomes: []pipeline.Outcome{
			{Source: "/in/a.pdf", Title: "Annual Report 2023", Target: "/out/Annual Report 2023.pdf", Status: pipeline.StatusMoved},
			{Source: "/in/b.pdf", Status: pipeline.StatusNoTitle},
			{Source: "/in/c.pdf", Title: "Memo", Target: "/out/Memo.pdf", Status: pipeline.StatusMoveError, Err: errors.New("permission denied")},
		},
		Moved:   1,
		Skipped: 2,
	}
}

func TestFromResult(t *testing.T) {
	rep := FromResult(sampleResult())

	assert.Equal(t, Version, rep.Version)
	assert.Equal(t, "/in", rep.Source)
	assert.Equal(t, "/out", rep.Destination)
	assert.Equal(t, Summary{Total: 3, Moved: 1, Skipped: 2}, rep.Summary)
	require.Len(t, rep.Files, 3)
	assert.Equal(t, "moved", rep.Files[0].Status)
	assert.Equal(t, "skipped:no-title", rep.Files[1].Status)
	assert.Empty(t, rep.Files[1].Target)
	assert.Equal(t, "permission denied", rep.Files[2].Error)
}

func TestSave_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.yaml")
	require.NoError(t, FromResult(sampleResult()).Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, "strategy: first-line"), text)
	assert.True(t, strings.Contains(text, "status: skipped:no-title"), text)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/out/Annual Report 2023.pdf", loaded.Files[0].Target)
	assert.Equal(t, 2, loaded.Summary.Skipped)
}

func TestSave_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.JSON")
	require.NoError(t, FromResult(sampleResult()).Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"dry_run": false`))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "permission denied", loaded.Files[2].Error)
}

func TestSave_UnknownFormat(t *testing.T) {
	err := FromResult(sampleResult()).Save(filepath.Join(t.TempDir(), "run.txt"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
