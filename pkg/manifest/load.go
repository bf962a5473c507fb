// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/packup/packup/pkg/cueutil"
)

//go:embed manifest_schema.cue
var manifestSchema []byte

// buildConditions are the conditions that produce artifacts and therefore
// need a source to build from.
var buildConditions = []Condition{ConditionTypes, ConditionImport, ConditionRequire, ConditionDefault}

// Document is a parsed but not yet validated package.json.
type Document struct {
	Path  string
	value cue.Value
}

// Load reads and parses the manifest at path.
func Load(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &LoadError{Path: abs, Err: err}
	}
	return Parse(data, abs)
}

// Parse parses manifest bytes. path is used for error messages and as the
// manifest location.
func Parse(data []byte, path string) (*Document, error) {
	v, err := cueutil.CompileJSON(cuecontext.New(), data, cueutil.WithFilename(filepath.Base(path)))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if v.IncompleteKind() != cue.StructKind {
		return nil, &LoadError{Path: path, Err: errors.New("top-level value is not an object")}
	}
	return &Document{Path: path, value: v}, nil
}

// Validate checks the document against the manifest schema and the export
// map rules and returns the decoded manifest.
func Validate(doc *Document) (*Manifest, error) {
	if _, err := cueutil.Unify(manifestSchema, "#Package", doc.value,
		cueutil.WithFilename(filepath.Base(doc.Path))); err != nil {
		return nil, schemaError(doc.Path, err)
	}

	m := &Manifest{
		Path:    doc.Path,
		Name:    lookupString(doc.value, "name"),
		Version: lookupString(doc.value, "version"),
		Type:    PackageType(lookupString(doc.value, "type")),
		Main:    lookupString(doc.value, "main"),
		Module:  lookupString(doc.value, "module"),
		Source:  lookupString(doc.value, "source"),
		Types:   lookupString(doc.value, "types"),
	}

	exports := doc.value.LookupPath(cue.ParsePath("exports"))
	if exports.Exists() {
		entries, err := decodeExports(doc.Path, exports)
		if err != nil {
			return nil, err
		}
		m.Exports = entries
	} else {
		entry, err := synthesizeRoot(doc.Path, m)
		if err != nil {
			return nil, err
		}
		m.Exports = []ExportEntry{entry}
		m.Synthesized = true
	}

	for _, e := range m.Exports {
		if e.IsShorthand() || e.Source() != "" {
			continue
		}
		for _, c := range buildConditions {
			if e.Has(c) {
				return nil, &ValidationError{
					Path:    doc.Path,
					Field:   fmt.Sprintf("exports[%q].source", e.Key),
					Message: fmt.Sprintf("required when %q is declared", c),
				}
			}
		}
	}

	return m, nil
}

// LoadAndValidate is Load followed by Validate.
func LoadAndValidate(path string) (*Manifest, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Validate(doc)
}

func schemaError(path string, err error) error {
	var ve *cueutil.ValidationError
	if errors.As(err, &ve) {
		return &ValidationError{Path: path, Field: ve.CUEPath, Message: ve.Message}
	}
	return &ValidationError{Path: path, Message: err.Error()}
}

// decodeExports walks the export map in declaration order. An object whose
// keys do not start with "." is a condition object for the root export.
func decodeExports(path string, v cue.Value) ([]ExportEntry, error) {
	if s, err := v.String(); err == nil {
		return []ExportEntry{{Key: RootExport, Shorthand: s}}, nil
	}

	keys, values, err := fields(v)
	if err != nil {
		return nil, &ValidationError{Path: path, Field: "exports", Message: err.Error()}
	}

	subpaths := 0
	for _, k := range keys {
		if strings.HasPrefix(k, ".") {
			subpaths++
		}
	}
	switch subpaths {
	case 0:
		entry, err := decodeEntry(RootExport, v)
		if err != nil {
			return nil, &ValidationError{Path: path, Field: "exports", Message: err.Error()}
		}
		return []ExportEntry{entry}, nil
	case len(keys):
	default:
		return nil, &ValidationError{
			Path:    path,
			Field:   "exports",
			Message: `cannot mix subpath keys (starting with ".") and condition keys`,
		}
	}

	entries := make([]ExportEntry, 0, len(keys))
	for i, key := range keys {
		entry, err := decodeEntry(key, values[i])
		if err != nil {
			return nil, &ValidationError{Path: path, Field: fmt.Sprintf("exports[%q]", key), Message: err.Error()}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeEntry(key string, v cue.Value) (ExportEntry, error) {
	if s, err := v.String(); err == nil {
		return ExportEntry{Key: key, Shorthand: s}, nil
	}

	names, values, err := fields(v)
	if err != nil {
		return ExportEntry{}, err
	}
	entry := ExportEntry{Key: key, Conditions: make([]Target, 0, len(names))}
	for i, name := range names {
		// Nested condition objects keep their slot for ordering checks.
		target, _ := values[i].String()
		entry.Conditions = append(entry.Conditions, Target{Condition: Condition(name), Path: target})
	}
	return entry, nil
}

// synthesizeRoot builds the root export of a package without an export map
// from its top-level fields.
func synthesizeRoot(path string, m *Manifest) (ExportEntry, error) {
	if m.Main == "" && m.Module == "" {
		return ExportEntry{}, &ValidationError{
			Path:    path,
			Field:   "main",
			Message: `"main" or "module" is required when "exports" is not declared`,
		}
	}
	if m.Source == "" {
		return ExportEntry{}, &ValidationError{
			Path:    path,
			Field:   "source",
			Message: `required when "exports" is not declared`,
		}
	}

	entry := ExportEntry{Key: RootExport}
	add := func(c Condition, p string) {
		if p != "" {
			entry.Conditions = append(entry.Conditions, Target{Condition: c, Path: p})
		}
	}
	add(ConditionTypes, m.Types)
	add(ConditionSource, m.Source)

	switch m.EffectiveType() {
	case TypeModule:
		if m.Module != "" {
			add(ConditionImport, m.Module)
		} else {
			add(ConditionImport, m.Main)
		}
	default:
		add(ConditionImport, m.Module)
		add(ConditionRequire, m.Main)
	}
	return entry, nil
}

func fields(v cue.Value) ([]string, []cue.Value, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, nil, err
	}
	var (
		keys   []string
		values []cue.Value
	)
	for iter.Next() {
		keys = append(keys, iter.Selector().Unquoted())
		values = append(values, iter.Value())
	}
	return keys, values, nil
}

func lookupString(v cue.Value, field string) string {
	s, err := v.LookupPath(cue.ParsePath(field)).String()
	if err != nil {
		return ""
	}
	return s
}
