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

// Format is a settings file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load builds settings from defaults, the file at path (if non-empty and
// present) and the environment, then validates the result.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		if err := LoadFile(path, &s); err != nil {
			return s, err
		}
	}
	if err := ApplyEnv(&s, os.LookupEnv); err != nil {
		return s, err
	}
	return s, s.Validate()
}

// LoadFile overlays the settings file at path onto s.
// A missing file is not an error.
func LoadFile(path string, s *Settings) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Decode(bytes.NewReader(data), format, path, s)
}

// Decode reads settings in the given format from r and overlays them onto s.
// source names the input in error messages.
func Decode(r io.Reader, format Format, source string, s *Settings) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	var f fileSettings
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			pe := &ParseError{Path: source, Message: err.Error(), Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				pe.Line, pe.Column = derr.Position()
			}
			return pe
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return &ParseError{Path: source, Message: err.Error(), Err: err}
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}

	return f.apply(s, source)
}

// Save writes s to path in the format implied by its extension. The file is
// replaced atomically.
func Save(path string, s Settings) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatTOML:
		data, err = toml.Marshal(toFile(s))
	case FormatYAML:
		data, err = yaml.Marshal(toFile(s))
	}
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".blockdnd-*")
	if err != nil {
		return fmt.Errorf("creating temp config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// DefaultPath returns the per-user settings file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "blockdnd", "config.toml"), nil
}
