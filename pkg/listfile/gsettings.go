package listfile

import (
	"strings"

	"github.com/arthur-debert/hostprep/pkg/errors"
)

// GSetting is one "schema key value" line of the GNOME list
type GSetting struct {
	Schema string
	Key    string
	Value  string
}

// ID names the setting for selection and reporting
func (g GSetting) ID() string {
	return g.Schema + " " + g.Key
}

// ParseGSetting splits a line into schema, key and the remaining value.
// The value keeps its inner spacing.
func ParseGSetting(line string) (GSetting, error) {
	rest := strings.TrimSpace(StripSettingComment(line))

	schema, rest, ok := cutField(rest)
	if !ok {
		return GSetting{}, errors.Newf(errors.ErrInvalidInput, "gsettings line %q: missing key", line)
	}
	key, value, ok := cutField(rest)
	if !ok || value == "" {
		return GSetting{}, errors.Newf(errors.ErrInvalidInput, "gsettings line %q: missing value", line)
	}
	return GSetting{Schema: schema, Key: key, Value: value}, nil
}

// NormalizeValue makes gsettings output comparable with a list value:
// surrounding whitespace is dropped and single quotes become double quotes
// when the value is a plain quoted string.
func NormalizeValue(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' && !strings.Contains(v[1:len(v)-1], "'") {
		return `"` + v[1:len(v)-1] + `"`
	}
	return v
}

func cutField(s string) (field, rest string, ok bool) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, "", false
	}
	return s[:i], strings.TrimSpace(s[i+1:]), true
}
