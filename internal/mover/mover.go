// Package mover relocates a renamed PDF into the destination directory.
package mover

import (
	"os"

	"github.com/pkg/errors"

	"github.com/divyekant/pdfrename/internal/filename"
)

var (
	// ErrPathTooLong is returned, before anything is touched, when the target
	// path exceeds the configured bound.
	ErrPathTooLong = errors.New("mover: target path too long")
	// ErrTargetExists is returned when the target appeared after it was resolved.
	ErrTargetExists = errors.New("mover: target already exists")
)

// Move renames src to dst. maxPathLen <= 0 disables the length guard. On any
// error src is left where it was.
func Move(src, dst string, maxPathLen int) error {
	if maxPathLen > 0 && filename.PathLen(dst) > maxPathLen {
		return errors.Wrapf(ErrPathTooLong, "%d > %d characters", filename.PathLen(dst), maxPathLen)
	}

	// Last-moment check; os.Rename would silently replace an existing file.
	if _, err := os.Lstat(dst); err == nil {
		return errors.Wrap(ErrTargetExists, dst)
	}

	if err := os.Rename(src, dst); err != nil {
		return errors.Wrap(err, "mover: rename")
	}
	return nil
}
