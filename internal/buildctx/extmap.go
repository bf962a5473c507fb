// SPDX-License-Identifier: MPL-2.0

package buildctx

import (
	"github.com/packup/packup/pkg/manifest"
)

// ExtensionMap maps an output condition to the file extension of the
// artifacts generated for it.
type ExtensionMap map[manifest.Condition]string

// ExtensionMapFor returns the extension map for a package type. In a
// commonjs package ".js" files are CommonJS and ES modules use ".mjs"; in a
// module package ".js" files are ES modules and CommonJS uses ".cjs".
func ExtensionMapFor(t manifest.PackageType) ExtensionMap {
	if t == manifest.TypeModule {
		return ExtensionMap{
			manifest.ConditionTypes:   ".d.ts",
			manifest.ConditionImport:  ".js",
			manifest.ConditionRequire: ".cjs",
			manifest.ConditionDefault: ".js",
		}
	}
	return ExtensionMap{
		manifest.ConditionTypes:   ".d.ts",
		manifest.ConditionImport:  ".mjs",
		manifest.ConditionRequire: ".js",
		manifest.ConditionDefault: ".js",
	}
}

// Lookup returns the extension for c.
func (m ExtensionMap) Lookup(c manifest.Condition) (string, bool) {
	ext, ok := m[c]
	return ext, ok
}
