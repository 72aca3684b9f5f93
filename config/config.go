// Package config handles tilde.toml session configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the configuration file.
const FileName = "tilde.toml"

// Default prompts, matching the interactive shell.
const (
	DefaultPrompt             = "> "
	DefaultContinuationPrompt = "+ "
)

// Config represents a tilde.toml configuration.
type Config struct {
	Session Session `toml:"session"`
	Log     Log     `toml:"log"`
	Random  Random  `toml:"random"`

	// Dir is the directory containing the tilde.toml file (set at load time).
	// It is empty for the default configuration.
	Dir string `toml:"-"`
}

// Session configures the interactive shell.
type Session struct {
	Echo               *bool    `toml:"echo"`
	Prompt             string   `toml:"prompt"`
	ContinuationPrompt string   `toml:"continuation-prompt"`
	Startup            []string `toml:"startup"`
}

// Log configures logging.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Random configures the random source used by distributions.
type Random struct {
	Seed *uint64 `toml:"seed"`
}

// Default returns the configuration used when no tilde.toml is found.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load parses a tilde.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return c, nil
}

// Parse decodes tilde.toml content, validates it against schema.cue and
// applies defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	raw := make(map[string]interface{})
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, err
	}
	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Session.Echo == nil {
		echo := true
		c.Session.Echo = &echo
	}
	if c.Session.Prompt == "" {
		c.Session.Prompt = DefaultPrompt
	}
	if c.Session.ContinuationPrompt == "" {
		c.Session.ContinuationPrompt = DefaultContinuationPrompt
	}
}

// FindAndLoad walks up from startDir to find a tilde.toml file,
// then loads and returns it. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Echo reports whether top-level values are echoed.
func (c *Config) Echo() bool {
	return c.Session.Echo == nil || *c.Session.Echo
}

// Seed returns the configured random seed, if any.
func (c *Config) Seed() (uint64, bool) {
	if c.Random.Seed == nil {
		return 0, false
	}
	return *c.Random.Seed, true
}

// StartupPaths returns absolute paths for the configured startup scripts.
func (c *Config) StartupPaths() []string {
	var paths []string
	for _, p := range c.Session.Startup {
		if !filepath.IsAbs(p) {
			p = filepath.Join(c.Dir, p)
		}
		paths = append(paths, p)
	}
	return paths
}

// LogFile returns the log file path, or nil to log to stderr.
func (c *Config) LogFile() *string {
	if c.Log.File == "" {
		return nil
	}
	path := c.Log.File
	if !filepath.IsAbs(path) && c.Dir != "" {
		path = filepath.Join(c.Dir, path)
	}
	return &path
}
