// Package scanner lists the PDF files a rename run will process.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// PDFExt is the extension, compared case-insensitively, that selects input files.
const PDFExt = ".pdf"

// FileInfo holds metadata about a single scanned PDF.
type FileInfo struct {
	Path string // absolute path
	Name string // base name inside the scanned directory
	Size int64
}

// ScanResult contains everything discovered during a scan.
type ScanResult struct {
	Root  string
	Files []FileInfo
	// Ignored counts entries that were not regular PDF files.
	Ignored int
}

// IsPDF reports whether name carries the PDF extension, ignoring case.
func IsPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), PDFExt)
}

// Scan lists the regular files directly inside root whose names end in .pdf
// (any case). Subdirectories are not descended into. Files are returned in
// name order so runs are reproducible.
func Scan(root string) (*ScanResult, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "scanner: resolve root")
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, errors.Wrap(err, "scanner: read dir")
	}

	result := &ScanResult{Root: absRoot}
	for _, entry := range entries {
		if entry.IsDir() || !IsPDF(entry.Name()) {
			result.Ignored++
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			result.Ignored++
			continue
		}
		if !info.Mode().IsRegular() {
			result.Ignored++
			continue
		}

		result.Files = append(result.Files, FileInfo{
			Path: filepath.Join(absRoot, entry.Name()),
			Name: entry.Name(),
			Size: info.Size(),
		})
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Name < result.Files[j].Name
	})

	return result, nil
}
