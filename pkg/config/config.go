package config

import (
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/hostprep/pkg/errors"
)

// Config is the effective hostprep configuration
type Config struct {
	Lists    Lists    `koanf:"lists" toml:"lists"`
	Dotfiles Dotfiles `koanf:"dotfiles" toml:"dotfiles"`
	GitHub   GitHub   `koanf:"github" toml:"github"`
	Tasks    Tasks    `koanf:"tasks" toml:"tasks"`
}

// Lists points at the newline-delimited list files
type Lists struct {
	Packages string `koanf:"packages" toml:"packages"`
	Snaps    string `koanf:"snaps" toml:"snaps"`
	Gnome    string `koanf:"gnome" toml:"gnome"`
}

// Dotfiles configures the dotfile linking task
type Dotfiles struct {
	Source string   `koanf:"source" toml:"source"`
	Target string   `koanf:"target" toml:"target"`
	Ignore []string `koanf:"ignore" toml:"ignore"`
}

// GitHub configures repository discovery and cloning
type GitHub struct {
	Token     string `koanf:"token" toml:"token"`
	APIURL    string `koanf:"api_url" toml:"api_url"`
	CloneRoot string `koanf:"clone_root" toml:"clone_root"`
}

// Tasks controls which tasks are offered and in what order
type Tasks struct {
	Order []string `koanf:"order" toml:"order"`
}

// Validate checks invariants the loaders cannot express
func (c *Config) Validate() error {
	if len(c.Tasks.Order) == 0 {
		return errors.New(errors.ErrInvalidInput, "tasks.order must name at least one task")
	}
	seen := make(map[string]bool, len(c.Tasks.Order))
	for _, id := range c.Tasks.Order {
		if strings.TrimSpace(id) == "" {
			return errors.New(errors.ErrInvalidInput, "tasks.order contains an empty task id")
		}
		if seen[id] {
			return errors.Newf(errors.ErrInvalidInput, "tasks.order lists %q twice", id)
		}
		seen[id] = true
	}
	if c.GitHub.APIURL == "" {
		return errors.New(errors.ErrInvalidInput, "github.api_url must not be empty")
	}
	return nil
}

// Redacted returns a copy safe for printing
func (c *Config) Redacted() *Config {
	cp := *c
	cp.Dotfiles.Ignore = append([]string(nil), c.Dotfiles.Ignore...)
	cp.Tasks.Order = append([]string(nil), c.Tasks.Order...)
	if cp.GitHub.Token != "" {
		cp.GitHub.Token = "<redacted>"
	}
	return &cp
}

// TOML renders the configuration in the same format the loader reads
func (c *Config) TOML() ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return out, nil
}
