package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"hdrscan/internal/cppparse"
)

// DefaultFileName is the config file looked up in the working directory
// when no explicit path is given.
const DefaultFileName = "hdrscan.toml"

// EnvDBPath overrides the configured database path when set.
const EnvDBPath = "HDRSCAN_DB_PATH"

// ErrUnknownDialect is returned when the configured dialect name does not
// match a known parser dialect.
var ErrUnknownDialect = errors.New("unknown dialect")

// Config holds the scanner settings read from a TOML file. The zero value
// is usable: plain C++ dialect, no filters, indexer defaults.
type Config struct {
	// Dialect selects the base parser dialect: "cpp" (default) or "unreal".
	Dialect string `toml:"dialect"`

	// DBPath is the index database location. HDRSCAN_DB_PATH wins over it.
	DBPath string `toml:"db_path"`

	// Workers caps the parse worker count; 0 means one per CPU.
	Workers int `toml:"workers"`

	// Include and Exclude are glob patterns over root-relative paths.
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`

	// Extra reflection macros recognized on top of the base dialect.
	ClassMacros  []string `toml:"class_macros"`
	MethodMacros []string `toml:"method_macros"`
	MemberMacros []string `toml:"member_macros"`

	// BodyIgnore adds marker macros skipped inside class bodies.
	BodyIgnore []string `toml:"body_ignore"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{Dialect: "cpp"}
}

// Load reads a TOML config file. An empty path tries DefaultFileName in the
// working directory and falls back to Default when it does not exist; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveDBPath returns the database path with the environment override
// applied. Empty means the caller's default location.
func (c *Config) ResolveDBPath() string {
	if env := os.Getenv(EnvDBPath); env != "" {
		return env
	}
	return c.DBPath
}

// ParserDialect resolves the configured dialect name and layers the extra
// macros on top of it.
func (c *Config) ParserDialect() (cppparse.Dialect, error) {
	var d cppparse.Dialect
	switch c.Dialect {
	case "", "cpp", "plain":
		d = cppparse.Plain()
	case "unreal", "ue":
		d = cppparse.Unreal()
	default:
		return cppparse.Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDialect, c.Dialect)
	}

	if len(c.ClassMacros) > 0 {
		d.ClassAnnotation = firstOf(d.ClassAnnotation, cppparse.MacroAnnotation(c.ClassMacros...))
	}
	if len(c.MethodMacros) > 0 {
		d.MethodAnnotation = firstOf(d.MethodAnnotation, cppparse.MacroAnnotation(c.MethodMacros...))
	}
	if len(c.MemberMacros) > 0 {
		d.MemberAnnotation = firstOf(d.MemberAnnotation, cppparse.MacroAnnotation(c.MemberMacros...))
	}
	d.BodyIgnore = append(d.BodyIgnore, c.BodyIgnore...)
	return d, nil
}

// firstOf tries a then b, so configured macros extend rather than replace
// the base dialect's recognizer.
func firstOf(a, b cppparse.AnnotationFunc) cppparse.AnnotationFunc {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(p *cppparse.Parser, pos int) (string, int, bool) {
		if text, next, ok := a(p, pos); ok {
			return text, next, ok
		}
		return b(p, pos)
	}
}
