package config

import (
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/hostprep/pkg/errors"
)

// EnvPrefix is the prefix for configuration overrides in the environment
const EnvPrefix = "HOSTPREP_"

// EnvGitHubToken is consulted when no token is configured
const EnvGitHubToken = "GITHUB_TOKEN"

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// Path is the user configuration file
	Path string
	// Required makes a missing file an error (set for --config)
	Required bool
	// Overrides are applied last, above the environment
	Overrides map[string]interface{}
}

// Load builds the effective configuration
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config file
	if opts.Path != "" {
		if _, err := os.Stat(opts.Path); err == nil {
			if err := k.Load(file.Provider(opts.Path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", opts.Path)
			}
		} else if !os.IsNotExist(err) || opts.Required {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", opts.Path)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	// 6. Post-process
	postProcessConfig(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration built from embedded defaults only
func Default() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal defaults")
	}
	return &cfg, nil
}

// envKey maps HOSTPREP_GITHUB_API_URL to github.api_url. Only the first
// underscore separates the section so keys may contain underscores.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func postProcessConfig(cfg *Config) {
	cfg.GitHub.Token = strings.TrimSpace(cfg.GitHub.Token)
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = strings.TrimSpace(os.Getenv(EnvGitHubToken))
	}
	if cfg.GitHub.APIURL != "" && !strings.HasSuffix(cfg.GitHub.APIURL, "/") {
		cfg.GitHub.APIURL += "/"
	}
	order := cfg.Tasks.Order[:0]
	for _, id := range cfg.Tasks.Order {
		order = append(order, strings.TrimSpace(id))
	}
	cfg.Tasks.Order = order
}
