// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides utilities for secure logging and error presentation.
// It includes functions for masking sensitive information in log messages and
// formatting errors for user-friendly display while protecting credentials and secrets.
//
// The package helps ensure that sensitive data like workspace API tokens are not
// accidentally exposed in logs or error messages shown to users.
package logging

import (
	"regexp"
)

var (
	reToken    = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	rePassword = regexp.MustCompile(`(?i)(password=)([^\s;]+)`)
	reAPIKey   = regexp.MustCompile(`(?i)(apikey=|api_key=)([^\s;]+)`)
	// platform personal access tokens have a recognizable dapi prefix
	rePAT    = regexp.MustCompile(`dapi[0-9a-f]{16,}`)
	reEnvVar = regexp.MustCompile(`(LAKESHIFT_TOKEN|ACCESS_TOKEN)=\S+`)
)

// Mask replaces sensitive values in the input string with "*".
func Mask(s string) string {
	out := s
	out = reToken.ReplaceAllString(out, "$1***")
	out = rePassword.ReplaceAllString(out, "$1***")
	out = reAPIKey.ReplaceAllString(out, "$1***")
	out = rePAT.ReplaceAllString(out, "dapi***")
	out = reEnvVar.ReplaceAllString(out, "$1=***")
	return out
}
