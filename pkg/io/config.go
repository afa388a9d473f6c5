package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hallgen/hallgen/pkg/errors"
	"github.com/hallgen/hallgen/pkg/layout"
)

// LoadConfig reads a facility configuration from path. The format is
// chosen by extension: .toml for TOML, .json for JSON.
func LoadConfig(path string) (layout.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return layout.Config{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open config %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ReadConfigTOML(f)
	case ".json":
		return ReadConfigJSON(f)
	default:
		return layout.Config{}, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported config extension %q (want .toml or .json)", filepath.Ext(path))
	}
}

// ReadConfigTOML decodes a TOML configuration from r.
func ReadConfigTOML(r io.Reader) (layout.Config, error) {
	var cfg layout.Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return layout.Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml config")
	}
	return cfg, nil
}

// ReadConfigJSON decodes a JSON configuration from r.
func ReadConfigJSON(r io.Reader) (layout.Config, error) {
	var cfg layout.Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return layout.Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json config")
	}
	return cfg, nil
}
