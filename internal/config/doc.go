// SPDX-License-Identifier: MPL-2.0

// Package config loads the packup build configuration.
//
// The configuration lives next to package.json in one of the candidate files
// returned by BuildConfigFiles (CUE, TOML, YAML or JSON). Whatever the format,
// the document is converted to CUE and checked against the #Config schema in
// config_schema.cue, then merged over the defaults with Viper. Environment
// variables prefixed with PACKUP_ override file values (PACKUP_MINIFY,
// PACKUP_WATCH_DEBOUNCE, ...).
package config
