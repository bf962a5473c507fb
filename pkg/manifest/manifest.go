// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"slices"
)

// FileName is the manifest file name looked up in the working directory.
const FileName = "package.json"

// Package types.
const (
	TypeCommonJS PackageType = "commonjs"
	TypeModule   PackageType = "module"
)

// Known conditions, in the order they appear in a well-formed entry.
const (
	ConditionTypes   Condition = "types"
	ConditionSource  Condition = "source"
	ConditionModule  Condition = "module"
	ConditionImport  Condition = "import"
	ConditionRequire Condition = "require"
	ConditionDefault Condition = "default"
)

// RootExport is the export key of the package root.
const RootExport = "."

type (
	// PackageType is the package.json "type" field.
	PackageType string

	// Condition names one resolution context inside an export entry.
	Condition string

	// Target is one condition of an export entry. Path is empty when the
	// condition value is a nested condition object rather than a file.
	Target struct {
		Condition Condition
		Path      string
	}

	// ExportEntry is one key of the export map. An entry is either a string
	// shorthand or an ordered list of conditions.
	ExportEntry struct {
		Key        string
		Shorthand  string
		Conditions []Target
	}

	// Manifest is a validated package.json.
	Manifest struct {
		// Path is the absolute path of the file the manifest was read from.
		Path    string
		Name    string
		Version string
		Type    PackageType
		Main    string
		Module  string
		Source  string
		Types   string

		// Exports holds the declared export map in declaration order. When
		// the package declares no exports it holds a single root entry
		// synthesised from the top-level fields, and Synthesized is set.
		Exports     []ExportEntry
		Synthesized bool
	}
)

// IsKnown reports whether c is one of the conditions packup interprets.
func (c Condition) IsKnown() bool {
	switch c {
	case ConditionTypes, ConditionSource, ConditionModule, ConditionImport, ConditionRequire, ConditionDefault:
		return true
	}
	return false
}

// String returns the condition name.
func (c Condition) String() string { return string(c) }

// String returns the package type name.
func (t PackageType) String() string { return string(t) }

// IsShorthand reports whether the entry is a plain string mapping.
func (e ExportEntry) IsShorthand() bool {
	return e.Conditions == nil
}

// Get returns the target path of condition c.
func (e ExportEntry) Get(c Condition) (string, bool) {
	i := slices.IndexFunc(e.Conditions, func(t Target) bool { return t.Condition == c })
	if i < 0 {
		return "", false
	}
	return e.Conditions[i].Path, true
}

// Has reports whether condition c is declared.
func (e ExportEntry) Has(c Condition) bool {
	_, ok := e.Get(c)
	return ok
}

// Source returns the source file the entry is built from.
func (e ExportEntry) Source() string {
	src, _ := e.Get(ConditionSource)
	return src
}

// ConditionNames returns the declared condition names in order.
func (e ExportEntry) ConditionNames() []Condition {
	out := make([]Condition, len(e.Conditions))
	for i, t := range e.Conditions {
		out[i] = t.Condition
	}
	return out
}

// EffectiveType returns the package type, defaulting to commonjs.
func (m *Manifest) EffectiveType() PackageType {
	if m.Type == "" {
		return TypeCommonJS
	}
	return m.Type
}

// Export returns the entry for key.
func (m *Manifest) Export(key string) (ExportEntry, bool) {
	i := slices.IndexFunc(m.Exports, func(e ExportEntry) bool { return e.Key == key })
	if i < 0 {
		return ExportEntry{}, false
	}
	return m.Exports[i], true
}
