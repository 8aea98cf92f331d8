// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
// Package config loads the YAML configuration
// shared by the expression tools.
package config

import (
	"os"

	"github.com/SnellerInc/graphexpr/compr"
	"github.com/SnellerInc/graphexpr/expr"
	"github.com/SnellerInc/graphexpr/store"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Config is the top-level configuration.
type Config struct {
	// MaxExpressionDepth bounds the depth of
	// validated and decoded expressions.
	MaxExpressionDepth int `json:"max_expression_depth"`
	// RegexCacheSize is the number of compiled
	// patterns kept for =~.
	RegexCacheSize int `json:"regex_cache_size"`
	// LogLevel is one of debug, info, warn
	// or error.
	LogLevel string `json:"log_level"`
	Store    Store  `json:"store"`
}

// Store configures the expression store.
type Store struct {
	Dir      string `json:"dir"`
	InMemory bool   `json:"in_memory"`
	// CompressionLevel is one of default,
	// fastest, better, best or none.
	CompressionLevel string `json:"compression_level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		MaxExpressionDepth: expr.DefaultMaxDepth,
		RegexCacheSize:     128,
		LogLevel:           "info",
		Store: Store{
			Dir:              "gexpr.db",
			CompressionLevel: "default",
		},
	}
}

var compressionLevels = map[string]string{
	"default": "zstd",
	"fastest": "zstd-fastest",
	"better":  "zstd-better",
	"best":    "zstd-best",
	"none":    "none",
}

// Compression returns the name of the
// compressor selected by CompressionLevel.
func (s *Store) Compression() string {
	return compressionLevels[s.CompressionLevel]
}

// Parse reads a configuration from YAML. Keys
// that are not present keep their default value;
// unknown keys are an error.
func Parse(buf []byte) (*Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(buf, c); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	c, err := Parse(buf)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return c, nil
}

// Validate checks c for values that cannot be used.
func (c *Config) Validate() error {
	if c.MaxExpressionDepth <= 0 {
		return errors.Errorf("config: max_expression_depth must be positive, got %d", c.MaxExpressionDepth)
	}
	if c.RegexCacheSize <= 0 {
		return errors.Errorf("config: regex_cache_size must be positive, got %d", c.RegexCacheSize)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	name, ok := compressionLevels[c.Store.CompressionLevel]
	if !ok || compr.Compression(name) == nil {
		return errors.Errorf("config: unknown store.compression_level %q", c.Store.CompressionLevel)
	}
	if !c.Store.InMemory && c.Store.Dir == "" {
		return errors.New("config: store.dir is required unless store.in_memory is set")
	}
	return nil
}

// Apply installs the process-wide settings of c.
func (c *Config) Apply() error {
	return expr.SetRegexCacheSize(c.RegexCacheSize)
}

// StoreOptions returns the options to open the
// expression store with.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Dir:         c.Store.Dir,
		InMemory:    c.Store.InMemory,
		Compression: c.Store.Compression(),
		MaxDepth:    c.MaxExpressionDepth,
	}
}
