// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package logging

// SanitizeError truncates an error string for log output.
func SanitizeError(err string) string {
	const maxLen = 200
	if len(err) <= maxLen {
		return err
	}
	return err[:maxLen] + "..."
}
