package config

import (
	_ "embed"

	"github.com/arthur-debert/hostprep/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultContent returns the commented default configuration, suitable
// as a starting config.toml
func DefaultContent() string {
	return string(defaultConfig)
}

// rawBytesProvider feeds the embedded defaults to koanf
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }

func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "raw bytes provider needs a parser")
}
