// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE plumbing shared by the manifest and build
// config loaders: compiling user data (CUE or JSON), unifying it with an
// embedded schema definition, and turning CUE errors into path-qualified
// messages.
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[Config](schema, data, "#Config",
//	    cueutil.WithFilename("packup.config.cue"))
package cueutil
