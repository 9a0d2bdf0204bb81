package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a config file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format for a file path by extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// Load reads path over the defaults and validates the result. A missing
// file yields the defaults.
func Load(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := parse(path, data, format)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over the defaults without validating it.
func Parse(data []byte, format Format) (Config, error) {
	return parse("<data>", data, format)
}

func parse(source string, data []byte, format Format) (Config, error) {
	cfg := Defaults()

	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("%s: %w", format, ErrUnsupportedFormat)
	}
	if err != nil {
		return Config{}, &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
	}
	return cfg, nil
}
