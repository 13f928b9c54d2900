// Package filename turns a candidate title into a legal, collision-free
// destination filename.
package filename

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

const (
	// Ext is appended to every derived stem.
	Ext = ".pdf"
	// Placeholder replaces characters that are illegal in filenames.
	Placeholder = '_'
	// DefaultMaxLen caps the sanitized stem, in runes.
	DefaultMaxLen = 50
	// DefaultMaxPathLen is the legacy Windows MAX_PATH bound on a full target path.
	DefaultMaxPathLen = 260
)

// illegal holds the characters rejected by common filesystems, besides the
// ASCII control range.
const illegal = `<>:"/\|?*`

func isIllegal(r rune) bool {
	return r < 0x20 || strings.ContainsRune(illegal, r)
}

// Sanitize NFC-normalizes name, replaces every illegal character and ASCII
// control character with '_', and truncates the result to maxLen runes.
// maxLen <= 0 disables truncation. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(name string, maxLen int) string {
	name = strings.ToValidUTF8(name, string(Placeholder))
	name = norm.NFC.String(name)

	var b strings.Builder
	b.Grow(len(name))
	n := 0
	for _, r := range name {
		if maxLen > 0 && n == maxLen {
			break
		}
		if isIllegal(r) {
			r = Placeholder
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// Clean reports whether name already contains no illegal characters.
func Clean(name string) bool {
	return !strings.ContainsFunc(name, isIllegal)
}

// PathLen returns the length of path in characters (runes), the unit the
// path-length guard is expressed in.
func PathLen(path string) int {
	return utf8.RuneCountInString(path)
}

// Unique returns name if dir has no entry called name. Otherwise it appends
// _1, _2, ... before the extension until the name is free. Names present in
// taken are treated as occupied too; taken may be nil.
func Unique(dir, name string, taken map[string]bool) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := name
	for n := 1; ; n++ {
		used, err := occupied(dir, candidate, taken)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = stem + "_" + strconv.Itoa(n) + ext
	}
}

func occupied(dir, name string, taken map[string]bool) (bool, error) {
	if taken[name] {
		return true, nil
	}
	_, err := os.Lstat(filepath.Join(dir, name))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, errors.Wrapf(err, "filename: stat %s", name)
	}
}
