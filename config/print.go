// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"github.com/rs/zerolog/log"
)

// Summarize logs cfg at info level, mirroring the teacher's own
// ServerConfig.print() startup summary.
func (cfg RuntimeConfig) Summarize() {
	log.Info().
		Int("depthLimit", cfg.Eval.DepthLimit).
		Str("defaultLanguage", cfg.Eval.DefaultLanguage).
		Bool("strictLoad", cfg.Load.Strict).
		Str("logLevel", cfg.Log.Level).
		Str("logFormat", cfg.Log.Format).
		Msg("rlf: runtime configuration")
}
