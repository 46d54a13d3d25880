package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a config file syntax.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads path over the defaults, applies the environment and
// validates the result. A missing file is reported with an error wrapping
// os.ErrNotExist.
func Load(path string) (*Config, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := Decode(cfg, bytes.NewReader(data), format, path); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode reads settings from r into cfg. Keys not present keep their
// current values; unknown keys are an error.
func Decode(cfg *Config, r io.Reader, format Format, source string) error {
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(r).DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return tomlError(source, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return &ParseError{Path: source, Err: err}
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
	if cfg.Keys == nil {
		cfg.Keys = map[string]string{}
	}
	return nil
}

func tomlError(source string, err error) error {
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		line, _ := derr.Position()
		return &ParseError{Path: source, Line: line, Err: err}
	}
	return &ParseError{Path: source, Err: err}
}
