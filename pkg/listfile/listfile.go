// Package listfile reads the newline-delimited list files that drive the
// package, snap and GNOME tasks.
//
// Blank lines are ignored. In package and snap lists the first '#' starts
// a comment that runs to the end of the line. Settings lists carry values
// such as '#000000', so there a '#' only starts a comment at the start of
// a line or after whitespace.
package listfile

import (
	"io/fs"
	"strings"

	"github.com/arthur-debert/hostprep/pkg/errors"
	"github.com/arthur-debert/hostprep/pkg/types"
)

// ReadLines returns the meaningful lines of the list at path, trimmed and
// deduplicated in first-seen order. A missing file is reported with
// ErrNotFound so callers can turn it into a warning; anything else is
// ErrListRead.
func ReadLines(fsys types.FS, path string) ([]string, error) {
	return read(fsys, path, ParseLines)
}

// ReadSettingLines is ReadLines for settings lists.
func ReadSettingLines(fsys types.FS, path string) ([]string, error) {
	return read(fsys, path, ParseSettingLines)
}

func read(fsys types.FS, path string, parse func(string) []string) ([]string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "list file %s not found", path)
		}
		return nil, errors.Wrapf(err, errors.ErrListRead, "cannot read list file %s", path)
	}
	return parse(string(data)), nil
}

// ParseLines applies the package list rules to content.
func ParseLines(content string) []string {
	return parseWith(content, StripComment)
}

// ParseSettingLines applies the settings list rules to content.
func ParseSettingLines(content string) []string {
	return parseWith(content, StripSettingComment)
}

func parseWith(content string, strip func(string) string) []string {
	var lines []string
	seen := make(map[string]bool)
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(strip(raw))
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		lines = append(lines, line)
	}
	return lines
}

// StripComment cuts line at its first '#'.
func StripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

// StripSettingComment removes a comment that starts the line or follows
// whitespace, leaving '#' inside values alone.
func StripSettingComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != '#' {
			continue
		}
		if i == 0 || line[i-1] == ' ' || line[i-1] == '\t' {
			return line[:i]
		}
	}
	return line
}

// Names returns the first field of every line. Used for package lists
// where anything after the name is ignored.
func Names(lines []string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || seen[fields[0]] {
			continue
		}
		seen[fields[0]] = true
		names = append(names, fields[0])
	}
	return names
}
