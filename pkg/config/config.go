// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package config loads default command options from a TOML file.

	debug = false
	diff = true
	output_dir = "results"
	snippet = "import_path = '.'"

	[[param]]
	name = "r"
	values = [0.5, 1.0, 1.5]
	start = 1
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/inr-kit/twps/pkg/variants"
)

const (
	DirName  = "twps"
	FileName = "config.toml"

	// EnvConfigDir overrides the directory holding the default config file
	EnvConfigDir = "TWPS_CONFIG_DIR"
)

type Config struct {
	Debug     bool          `toml:"debug"`
	Diff      bool          `toml:"diff"`
	OutputDir string        `toml:"output_dir"`
	Snippet   string        `toml:"snippet"`
	Params    []ParamConfig `toml:"param"`
}

type ParamConfig struct {
	Name   string        `toml:"name"`
	Values []interface{} `toml:"values"`
	Start  int           `toml:"start"`
}

// DefaultPath returns $TWPS_CONFIG_DIR/config.toml if set, otherwise
// config.toml within the twps directory of the XDG config home.
func DefaultPath() string {
	if dir := os.Getenv(EnvConfigDir); len(dir) > 0 {
		return filepath.Join(dir, FileName)
	}
	return filepath.Join(xdg.ConfigHome, DirName, FileName)
}

// Load reads config from path. If path is empty, the default path is used
// and a missing file yields an empty Config.
func Load(path string) (Config, error) {
	explicit := len(path) > 0
	if !explicit {
		path = DefaultPath()
	}

	var conf Config

	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("Loading config '%s': %s", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		var keys []string
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return Config{}, fmt.Errorf("Loading config '%s': Unknown keys: %s", path, strings.Join(keys, ", "))
	}

	return conf, nil
}

// ParameterSet converts configured params, keeping their order.
func (c Config) ParameterSet() (variants.ParameterSet, error) {
	var result variants.ParameterSet
	for i, param := range c.Params {
		converted, err := param.AsParam()
		if err != nil {
			return nil, fmt.Errorf("Converting config param %d: %s", i+1, err)
		}
		result = append(result, converted)
	}
	return result, nil
}

func (p ParamConfig) AsParam() (variants.Param, error) {
	if len(p.Name) == 0 {
		return variants.Param{}, fmt.Errorf("Expected param name to be non-empty")
	}
	if len(p.Values) == 0 {
		return variants.Param{}, fmt.Errorf("Expected param '%s' to have at least one value", p.Name)
	}

	for _, val := range p.Values {
		switch val.(type) {
		case int64, float64, string:
		default:
			return variants.Param{}, fmt.Errorf("Expected param '%s' values to be integers, floats or strings, but found %T", p.Name, val)
		}
	}

	return variants.Param{Name: p.Name, Values: p.Values, Start: p.Start}, nil
}
