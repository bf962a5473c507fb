// SPDX-License-Identifier: MPL-2.0

// Package manifest loads and validates the package.json of the package being
// built.
//
// Loading keeps object key order, because the order of export keys and of
// the conditions inside each export entry is meaningful: it drives task
// order and is checked by ValidateExportsOrdering. Shape validation runs the
// document through an embedded CUE schema (manifest_schema.cue) and then
// applies the rules CUE cannot express, such as "an entry with build
// conditions needs a source".
package manifest
