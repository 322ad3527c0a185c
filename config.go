package typcheck

import (
	"time"

	"golang.org/x/text/language"
)

// LanguageAuto lets the backend detect the document language, where the
// backend supports detection.
const LanguageAuto = "auto"

// DefaultMaxChunkSize bounds the text submitted per backend request.
const DefaultMaxChunkSize = 1000

// Duration wraps time.Duration so config files can use values like "500ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return Errorf(EINVALID, "invalid duration %q", string(text))
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the configuration surface consumed by the core. Zero values
// fall back to defaults; see DefaultConfig.
type Config struct {
	// Language is a BCP 47 tag such as "en-US", or "auto".
	Language string `toml:"language"`

	// Dictionary lists additional allowed words.
	Dictionary []string `toml:"dictionary"`

	// DisabledRules lists backend rule IDs to suppress.
	DisabledRules []string `toml:"disabled_rules"`

	// IgnoreFunctions names directives whose content is excluded from
	// extraction (e.g. bibliography or citation generators).
	IgnoreFunctions []string `toml:"ignore_functions"`

	// MaxChunkSize bounds the text submitted per backend request, in bytes.
	MaxChunkSize int `toml:"max_chunk_size"`

	// Debounce is the delay after the last edit before an automatic check.
	// Zero disables change-triggered checks; only explicit requests run.
	Debounce Duration `toml:"debounce"`

	// Root is the project root; include paths resolve beneath it.
	Root string `toml:"root"`

	// Main names the extraction root for multi-file documents. Empty means
	// the checked file itself.
	Main string `toml:"main"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Language:        "en-US",
		MaxChunkSize:    DefaultMaxChunkSize,
		IgnoreFunctions: []string{"bibliography", "cite"},
	}
}

// Validate returns EINVALID if the configuration is not usable. Callers
// keep the previous valid config active when validation fails.
func (c *Config) Validate() error {
	if c.Language != LanguageAuto {
		if _, err := language.Parse(c.Language); err != nil {
			return Errorf(EINVALID, "invalid language tag %q", c.Language)
		}
	}
	if c.MaxChunkSize <= 0 {
		return Errorf(EINVALID, "max chunk size must be positive, got %d", c.MaxChunkSize)
	}
	if time.Duration(c.Debounce) < 0 {
		return Errorf(EINVALID, "debounce must not be negative")
	}
	return nil
}

// BackendConfig returns the subset of the configuration a backend applies.
func (c *Config) BackendConfig() BackendConfig {
	return BackendConfig{
		Dictionary:    c.Dictionary,
		DisabledRules: c.DisabledRules,
	}
}
