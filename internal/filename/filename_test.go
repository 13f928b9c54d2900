package filename

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{name: "clean title unchanged", in: "Annual Report 2023", maxLen: 50, want: "Annual Report 2023"},
		{name: "illegal characters", in: `a<b>c:d"e/f\g|h?i*j`, maxLen: 0, want: "a_b_c_d_e_f_g_h_i_j"},
		{name: "control characters", in: "tab\there\x00nul\x1fend", maxLen: 0, want: "tab_here_nul_end"},
		{name: "DEL is kept", in: "a\x7fb", maxLen: 0, want: "a\x7fb"},
		{name: "truncated", in: strings.Repeat("x", 80), maxLen: 50, want: strings.Repeat("x", 50)},
		{name: "no truncation when disabled", in: strings.Repeat("x", 80), maxLen: 0, want: strings.Repeat("x", 80)},
		{name: "truncates runes not bytes", in: strings.Repeat("é", 60), maxLen: 50, want: strings.Repeat("é", 50)},
		{name: "NFC composes combining marks", in: "Cafe\u0301", maxLen: 50, want: "Caf\u00e9"},
		{name: "invalid utf8", in: "bad\xffbyte", maxLen: 0, want: "bad_byte"},
		{name: "empty", in: "", maxLen: 50, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in, tt.maxLen)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestSanitize_NoIllegalCharactersRemain(t *testing.T) {
	var all strings.Builder
	for r := rune(0); r < 0x80; r++ {
		all.WriteRune(r)
	}
	all.WriteString(illegal)

	got := Sanitize(all.String(), 0)
	for _, r := range got {
		assert.False(t, r < 0x20, "control character %#x survived", r)
		assert.False(t, strings.ContainsRune(illegal, r), "illegal character %q survived", r)
	}
	assert.True(t, Clean(got))
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"Annual Report 2023",
		`weird: "name" <with> /slashes\ and | pipes?*`,
		"line\nbreak\r\nand\ttabs",
		strings.Repeat("Résumé ", 20),
		"Café au lait",
		"",
	}
	for _, in := range inputs {
		for _, maxLen := range []int{0, 10, 50} {
			once := Sanitize(in, maxLen)
			assert.Equal(t, once, Sanitize(once, maxLen), "input %q maxLen %d", in, maxLen)
		}
	}
}

func TestClean(t *testing.T) {
	assert.True(t, Clean("report 2023"))
	assert.False(t, Clean("a/b"))
	assert.False(t, Clean("a\nb"))
}

func TestPathLen(t *testing.T) {
	assert.Equal(t, 5, PathLen("/a/b."))
	assert.Equal(t, 3, PathLen("ééé"))
}

func TestUnique_NoCollision(t *testing.T) {
	dir := t.TempDir()
	got, err := Unique(dir, "report.pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", got)
}

func TestUnique_Suffixes(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "report.pdf")

	got, err := Unique(dir, "report.pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, "report_1.pdf", got)

	touch(t, dir, "report_1.pdf")
	got, err = Unique(dir, "report.pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, "report_2.pdf", got)
}

func TestUnique_DirectoryCountsAsCollision(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "report.pdf"), 0o755))

	got, err := Unique(dir, "report.pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, "report_1.pdf", got)
}

func TestUnique_Taken(t *testing.T) {
	dir := t.TempDir()
	taken := map[string]bool{"report.pdf": true, "report_1.pdf": true}

	got, err := Unique(dir, "report.pdf", taken)
	require.NoError(t, err)
	assert.Equal(t, "report_2.pdf", got)
}

func TestUnique_DottedStem(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "v1.2 notes.pdf")

	got, err := Unique(dir, "v1.2 notes.pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, "v1.2 notes_1.pdf", got)
}
