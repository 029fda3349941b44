// Package config loads linecore settings.
//
// Settings come from, in increasing precedence:
//
//  1. Built-in defaults (Default)
//  2. A configuration file in TOML (.toml) or YAML (.yaml, .yml) format
//  3. Environment variables prefixed with LINECORE_
//
// A TOML file looks like:
//
//	[editor]
//	line_ending = "lf"
//	normalize = "nfc"
//	max_undo = 500
//
//	[logging]
//	level = "debug"
//
// Watch reloads a file whenever it changes on disk.
package config
