// Package config loads the emerald.toml / emerald.yaml tool configuration
// shared by the CLI, the REPL and the language server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"emerald/internal/parser"
)

// EnvVar names the environment variable holding an explicit config path.
const EnvVar = "EMERALD_CONFIG"

// DefaultPaths are tried in order when neither a path nor EnvVar is given.
var DefaultPaths = []string{
	"./emerald.toml",
	"./emerald.yaml",
	"./emerald.yml",
}

// Config holds the complete tool configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Parser  ParserConfig  `toml:"parser" yaml:"parser"`
	LSP     LSPConfig     `toml:"lsp" yaml:"lsp"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// GeneralConfig holds settings shared by every tool
type GeneralConfig struct {
	LogLevel string `toml:"log_level" yaml:"log_level"`
	Color    bool   `toml:"color" yaml:"color"`
}

// ParserConfig holds parser settings
type ParserConfig struct {
	Mode         string `toml:"mode" yaml:"mode"`
	KeepComments bool   `toml:"keep_comments" yaml:"keep_comments"`
}

// LSPConfig holds language server settings
type LSPConfig struct {
	Name  string `toml:"name" yaml:"name"`
	Debug bool   `toml:"debug" yaml:"debug"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{General: GeneralConfig{Color: true}}
	cfg.applyDefaults()
	return cfg
}

// Load reads the configuration at path. With an empty path the EnvVar
// variable and then DefaultPaths are consulted; finding nothing there
// yields Default. A path that was asked for explicitly must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvVar); env != "" {
			path, explicit = env, true
		}
	}
	if !explicit {
		for _, p := range DefaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			return Default(), nil
		}
	}

	path = os.ExpandEnv(path)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(content, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes content in the given format ("toml" or "yaml") on top of
// the defaults and validates the result.
func Parse(content []byte, format string) (*Config, error) {
	cfg := Default()

	switch format {
	case "toml":
		if _, err := toml.Decode(string(content), cfg); err != nil {
			return nil, err
		}
	case "yaml":
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

// applyDefaults sets default values for empty settings
func (c *Config) applyDefaults() {
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warning"
	}
	if c.Parser.Mode == "" {
		c.Parser.Mode = parser.ModeModule.String()
	}
	if c.LSP.Name == "" {
		c.LSP.Name = "emerald"
	}
}

// Validate checks the settings that are restricted to a fixed set of values.
func (c *Config) Validate() error {
	if _, ok := verbosities[strings.ToLower(c.General.LogLevel)]; !ok {
		return fmt.Errorf("unknown log_level %q", c.General.LogLevel)
	}
	if _, err := parser.ParseMode(c.Parser.Mode); err != nil {
		return err
	}
	return nil
}

// Mode returns the configured parse mode, Module when it is invalid.
func (c *Config) Mode() parser.Mode {
	mode, err := parser.ParseMode(c.Parser.Mode)
	if err != nil {
		return parser.ModeModule
	}
	return mode
}

var verbosities = map[string]int{
	"none":     -4,
	"critical": -3,
	"error":    -2,
	"warning":  -1,
	"notice":   0,
	"info":     1,
	"debug":    2,
}

// Verbosity maps the log level onto commonlog's verbosity scale. Every
// verbose flag raises it one step.
func (c *Config) Verbosity(verbose int) int {
	v, ok := verbosities[strings.ToLower(c.General.LogLevel)]
	if !ok {
		v = verbosities["warning"]
	}
	return min(v+verbose, verbosities["debug"])
}
