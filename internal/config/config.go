// Package config loads the stride command line configuration from a TOML or
// YAML file. The format is chosen by file extension.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"go.stride.dev/pkg"
)

const (
	FormatSExpr = "sexpr"
	FormatGo    = "go"
)

type Config struct {
	Lexer   LexerConfig   `toml:"lexer" yaml:"lexer"`
	Codegen CodegenConfig `toml:"codegen" yaml:"codegen"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
}

type LexerConfig struct {
	TabWidth int `toml:"tab_width" yaml:"tab_width"`
}

type CodegenConfig struct {
	TargetTriple string `toml:"target_triple" yaml:"target_triple"`
}

type OutputConfig struct {
	// Format is how the parse command prints the AST: sexpr or go.
	Format string `toml:"format" yaml:"format"`
}

func Default() *Config {
	return &Config{
		Lexer:  LexerConfig{TabWidth: stride.DefaultTabWidth},
		Output: OutputConfig{Format: FormatSExpr},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, "YAML parse error in %s", path)
		}
	case ".toml", "":
		md, err := toml.Decode(string(content), cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "TOML parse error in %s", path)
		}

		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Errorf("unknown config key %s in %s", undecoded[0], path)
		}
	default:
		return nil, errors.Errorf("unsupported config format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Lexer.TabWidth <= 0 {
		return errors.Errorf("lexer.tab_width must be positive, got %d", c.Lexer.TabWidth)
	}

	switch c.Output.Format {
	case FormatSExpr, FormatGo:
	default:
		return errors.Errorf("output.format must be %s or %s, got %q", FormatSExpr, FormatGo, c.Output.Format)
	}

	return nil
}

// LexerOptions converts the lexer section to lexer options.
func (c *Config) LexerOptions() []stride.LexerOption {
	return []stride.LexerOption{stride.WithTabWidth(c.Lexer.TabWidth)}
}
