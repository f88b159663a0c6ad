// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package config holds the process-wide tunables a host embedding RLF can
// set: the recursion depth ceiling, strict-load mode, the default language,
// and logging level/format. It is loaded the same way the teacher's own
// server configuration is: defaults, then an optional YAML file, then
// environment variables, each layer overriding the last.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Global exposes the process-wide RLF configuration. Most callers construct
// a [github.com/rlf-lang/rlf.Locale] directly and never touch this; it
// exists for hosts that want one place to set the depth ceiling and logging
// options before constructing any Locale, mirroring the teacher's own
// package-level config.Global.
var Global RuntimeConfig

// RuntimeConfig is the full set of tunables. The zero value is not ready to
// use; call SetDefaults or Load.
type RuntimeConfig struct {
	Eval struct {
		// DepthLimit is the recursion ceiling applied to every evaluation
		// (§4.G.1). Zero means "use interpreter.DefaultDepthLimit".
		DepthLimit int `env:"RLF_DEPTH_LIMIT,overwrite" yaml:"depthLimit"`

		// DefaultLanguage is the language a Locale evaluates under when no
		// language has been explicitly selected.
		DefaultLanguage string `env:"RLF_DEFAULT_LANGUAGE,overwrite" yaml:"defaultLanguage"`
	} `yaml:"eval"`

	Load struct {
		// Strict makes load_translations/load_translations_str reject a
		// batch that fails validate_translations coverage checks; without
		// it, loads run no coverage check at all (§4.F's validate_translations
		// itself never errors; Strict is a host-level policy layered on
		// top of it).
		Strict bool `env:"RLF_STRICT_LOAD,overwrite" yaml:"strictLoad"`
	} `yaml:"load"`

	Log struct {
		Level  string `env:"RLF_LOG_LEVEL,overwrite" yaml:"level"`
		Format string `env:"RLF_LOG_FORMAT,overwrite" yaml:"format"`
	} `yaml:"log"`
}

// SetDefaults populates cfg with the built-in defaults.
func (cfg *RuntimeConfig) SetDefaults() {
	cfg.Eval.DepthLimit = 64
	cfg.Eval.DefaultLanguage = "en"
	cfg.Load.Strict = false
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
}

// Load builds a RuntimeConfig from defaults, an optional YAML file at
// yamlPath (skipped if yamlPath is "" or the file does not exist), and
// environment variables, in that order of increasing precedence. It also
// applies the resulting Log.Level/Log.Format to zerolog's global logger,
// the same ordering the teacher's own ServerConfig.LoadConfig performs.
func Load(yamlPath string) (RuntimeConfig, error) {
	var cfg RuntimeConfig

	cfg.SetDefaults()

	if err := cfg.readYAML(yamlPath); err != nil {
		return cfg, fmt.Errorf("rlf/config: %w", err)
	}

	if err := readEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("rlf/config: %w", err)
	}

	cfg.applyLogging()

	return cfg, nil
}

func (cfg *RuntimeConfig) readYAML(path string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Info().Str("path", path).Msg("rlf: no YAML configuration file found, skipping")

		return nil
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- path is caller-supplied configuration
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("rlf: loaded configuration")

	return nil
}

func (cfg *RuntimeConfig) applyLogging() {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("rlf: unrecognised log level, defaulting to info")

		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Log.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
