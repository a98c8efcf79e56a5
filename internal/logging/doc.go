// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

// Package logging provides centralized zerolog-based structured logging.
//
// The package exposes a process-wide logger configured once at startup:
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    File:   logging.FileConfig{Path: "/var/log/salescope.log", MaxSizeMB: 50},
//	})
//
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//	logging.Ctx(ctx).Error().Err(err).Msg("Failed to fetch months")
//
// Ctx adds the request_id and correlation_id set by the request ID
// middleware. When File.Path is set, output is additionally written to a
// size-rotated file via lumberjack.
//
// SlogHandler bridges zerolog to log/slog for the supervisor tree, which
// logs through sutureslog.
//
// Always terminate event chains with Msg or Send; an unterminated chain
// emits nothing.
package logging
