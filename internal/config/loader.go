package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	errNegative     = errors.New("must not be negative")
	errUnknownLevel = errors.New("unknown log level")
)

// Format identifies a configuration file syntax.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads the file at path on top of the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := parse(path, format, data)
	if err != nil {
		return Config{}, err
	}
	return finish(cfg)
}

// LoadFromReader reads a configuration in the given format from r.
func LoadFromReader(r io.Reader, format Format) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := parse("<reader>", format, data)
	if err != nil {
		return Config{}, err
	}
	return finish(cfg)
}

// LoadDefault returns the defaults with environment overrides applied.
func LoadDefault() (Config, error) {
	return finish(Default())
}

func finish(cfg Config) (Config, error) {
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parse decodes data over the defaults so that missing keys keep their
// default values.
func parse(source string, format Format, data []byte) (Config, error) {
	cfg := Default()
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return Config{}, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// EnvPrefix is the prefix of environment variables read by ApplyEnv.
const EnvPrefix = "LINECORE_"

// ApplyEnv overrides settings from LINECORE_LINE_ENDING,
// LINECORE_NORMALIZE, LINECORE_MAX_UNDO and LINECORE_LOG_LEVEL.
// Empty values are treated as set.
func ApplyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvPrefix + "LINE_ENDING"); ok {
		cfg.Editor.LineEnding = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "NORMALIZE"); ok {
		cfg.Editor.Normalize = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "MAX_UNDO"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ValidationError{Setting: "editor.max_undo", Value: v, Err: err}
		}
		cfg.Editor.MaxUndo = n
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		cfg.Logging.Level = strings.ToLower(v)
	}
	return nil
}
