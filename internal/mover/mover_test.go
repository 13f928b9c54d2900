package mover

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (src, destDir string) {
	t.Helper()
	srcDir := t.TempDir()
	destDir = t.TempDir()
	src = filepath.Join(srcDir, "scan0001.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4"), 0o644))
	return src, destDir
}

func TestMove(t *testing.T) {
	src, destDir := setup(t)
	dst := filepath.Join(destDir, "Annual Report 2023.pdf")

	require.NoError(t, Move(src, dst, 260))

	assert.NoFileExists(t, src)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestMove_PathTooLong(t *testing.T) {
	src, destDir := setup(t)
	dst := filepath.Join(destDir, strings.Repeat("a", 300)+".pdf")

	err := Move(src, dst, 260)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPathTooLong))
	assert.FileExists(t, src)
}

func TestMove_GuardDisabled(t *testing.T) {
	src, destDir := setup(t)
	dst := filepath.Join(destDir, "short.pdf")

	require.NoError(t, Move(src, dst, 0))
	assert.FileExists(t, dst)
}

func TestMove_TargetExists(t *testing.T) {
	src, destDir := setup(t)
	dst := filepath.Join(destDir, "taken.pdf")
	require.NoError(t, os.WriteFile(dst, []byte("original"), 0o644))

	err := Move(src, dst, 260)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTargetExists))
	assert.FileExists(t, src)

	data, _ := os.ReadFile(dst)
	assert.Equal(t, "original", string(data))
}

func TestMove_MissingDestinationDir(t *testing.T) {
	src, destDir := setup(t)
	dst := filepath.Join(destDir, "no-such-dir", "x.pdf")

	require.Error(t, Move(src, dst, 260))
	assert.FileExists(t, src)
}
