// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const validManifest = `{
  "name": "@acme/utils",
  "version": "1.2.0",
  "type": "commonjs",
  "scripts": {"build": "pack-up build"},
  "exports": {
    ".": {
      "types": "./dist/index.d.ts",
      "source": "./src/index.ts",
      "import": "./dist/index.mjs",
      "require": "./dist/index.js",
      "default": "./dist/index.js"
    },
    "./strings": {
      "types": "./dist/strings.d.ts",
      "source": "./src/strings.ts",
      "require": "./dist/strings.js"
    },
    "./package.json": "./package.json"
  }
}`

func mustValidate(t *testing.T, data string) *Manifest {
	t.Helper()

	doc, err := Parse([]byte(data), "/pkg/package.json")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	m, err := Validate(doc)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	return m
}

func TestValidateDecodesInDeclarationOrder(t *testing.T) {
	t.Parallel()

	m := mustValidate(t, validManifest)

	if m.Name != "@acme/utils" || m.Version != "1.2.0" || m.EffectiveType() != TypeCommonJS {
		t.Errorf("unexpected header fields: %+v", m)
	}

	var keys []string
	for _, e := range m.Exports {
		keys = append(keys, e.Key)
	}
	if want := []string{".", "./strings", "./package.json"}; !slices.Equal(keys, want) {
		t.Errorf("export keys = %v, want %v", keys, want)
	}

	root, _ := m.Export(".")
	wantConds := []Condition{ConditionTypes, ConditionSource, ConditionImport, ConditionRequire, ConditionDefault}
	if got := root.ConditionNames(); !slices.Equal(got, wantConds) {
		t.Errorf("root conditions = %v, want %v", got, wantConds)
	}
	if root.Source() != "./src/index.ts" {
		t.Errorf("root source = %q", root.Source())
	}

	pkgJSON, _ := m.Export("./package.json")
	if !pkgJSON.IsShorthand() || pkgJSON.Shorthand != "./package.json" {
		t.Errorf("./package.json entry = %+v, want shorthand", pkgJSON)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "truncated", data: `{"name": "x",`},
		{name: "not json", data: `name: x`},
		{name: "array", data: `["a"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data), "/pkg/package.json")
			if !errors.Is(err, ErrManifestLoad) {
				t.Errorf("Parse() error = %v, want ErrManifestLoad", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), FileName))
	if !errors.Is(err, ErrManifestLoad) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want ErrManifestLoad wrapping fs.ErrNotExist", err)
	}
}

func TestLoadAndValidate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(validManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate() error: %v", err)
	}
	if m.Path != path {
		t.Errorf("Path = %q, want %q", m.Path, path)
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      string
		wantField string
	}{
		{
			name:      "missing name",
			data:      `{"version": "1.0.0", "main": "./dist/index.js", "source": "./src/index.ts"}`,
			wantField: "name",
		},
		{
			name:      "bad version",
			data:      `{"name": "lib", "version": "one", "main": "./dist/index.js", "source": "./src/index.ts"}`,
			wantField: "version",
		},
		{
			name:      "bad type",
			data:      `{"name": "lib", "version": "1.0.0", "type": "esm", "main": "./dist/index.js", "source": "./src/index.ts"}`,
			wantField: "type",
		},
		{
			name:      "types must be a declaration file",
			data:      `{"name": "lib", "version": "1.0.0", "types": "./dist/index.js", "main": "./dist/index.js", "source": "./src/index.ts"}`,
			wantField: "types",
		},
		{
			name:      "entry without source",
			data:      `{"name": "lib", "version": "1.0.0", "exports": {"./a": {"import": "./dist/a.mjs"}}}`,
			wantField: `exports["./a"].source`,
		},
		{
			name:      "no exports and no entry point",
			data:      `{"name": "lib", "version": "1.0.0", "source": "./src/index.ts"}`,
			wantField: "main",
		},
		{
			name:      "no exports and no source",
			data:      `{"name": "lib", "version": "1.0.0", "main": "./dist/index.js"}`,
			wantField: "source",
		},
		{
			name:      "mixed subpaths and conditions",
			data:      `{"name": "lib", "version": "1.0.0", "exports": {".": "./index.js", "import": "./index.mjs"}}`,
			wantField: "exports",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := Parse([]byte(tt.data), "/pkg/package.json")
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			_, err = Validate(doc)
			if !errors.Is(err, ErrManifestValidation) {
				t.Fatalf("Validate() error = %v, want ErrManifestValidation", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error is %T, want *ValidationError", err)
			}
			if !strings.Contains(ve.Field, tt.wantField) {
				t.Errorf("Field = %q, want it to contain %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestSynthesizedRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want []Target
	}{
		{
			name: "commonjs with module field",
			data: `{"name": "lib", "version": "1.0.0", "source": "./src/index.ts", "types": "./dist/index.d.ts",
				"main": "./dist/index.js", "module": "./dist/index.mjs"}`,
			want: []Target{
				{Condition: ConditionTypes, Path: "./dist/index.d.ts"},
				{Condition: ConditionSource, Path: "./src/index.ts"},
				{Condition: ConditionImport, Path: "./dist/index.mjs"},
				{Condition: ConditionRequire, Path: "./dist/index.js"},
			},
		},
		{
			name: "module package main only",
			data: `{"name": "lib", "version": "1.0.0", "type": "module", "source": "./src/index.ts", "main": "./dist/index.js"}`,
			want: []Target{
				{Condition: ConditionSource, Path: "./src/index.ts"},
				{Condition: ConditionImport, Path: "./dist/index.js"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := mustValidate(t, tt.data)
			if !m.Synthesized || len(m.Exports) != 1 {
				t.Fatalf("exports = %+v, want one synthesized root", m.Exports)
			}
			if !slices.Equal(m.Exports[0].Conditions, tt.want) {
				t.Errorf("conditions = %+v, want %+v", m.Exports[0].Conditions, tt.want)
			}
		})
	}
}

func TestExportsShapes(t *testing.T) {
	t.Parallel()

	t.Run("string export", func(t *testing.T) {
		t.Parallel()

		m := mustValidate(t, `{"name": "lib", "version": "1.0.0", "exports": "./index.js"}`)
		if len(m.Exports) != 1 || !m.Exports[0].IsShorthand() || m.Exports[0].Key != RootExport {
			t.Errorf("exports = %+v, want root shorthand", m.Exports)
		}
	})

	t.Run("conditions at top level", func(t *testing.T) {
		t.Parallel()

		m := mustValidate(t, `{"name": "lib", "version": "1.0.0",
			"exports": {"source": "./src/index.ts", "import": "./dist/index.mjs"}}`)
		if len(m.Exports) != 1 || m.Exports[0].Key != RootExport || m.Exports[0].Source() != "./src/index.ts" {
			t.Errorf("exports = %+v, want root condition entry", m.Exports)
		}
	})

	t.Run("unknown and nested conditions are kept", func(t *testing.T) {
		t.Parallel()

		m := mustValidate(t, `{"name": "lib", "version": "1.0.0", "exports": {".": {
			"source": "./src/index.ts",
			"node": {"import": "./dist/node.mjs"},
			"browser": "./dist/browser.js",
			"import": "./dist/index.mjs"}}}`)
		got := m.Exports[0].ConditionNames()
		want := []Condition{ConditionSource, "node", "browser", ConditionImport}
		if !slices.Equal(got, want) {
			t.Errorf("conditions = %v, want %v", got, want)
		}
		if p, _ := m.Exports[0].Get("node"); p != "" {
			t.Errorf("nested condition path = %q, want empty", p)
		}
	})
}
