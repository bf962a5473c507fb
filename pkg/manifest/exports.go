// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"slices"
)

// ValidateExportsOrdering checks the condition order of every object entry
// of the export map, in declaration order, and stops at the first violation:
//
//   - "types" must be the first condition
//   - "module" must come before "import"
//   - "default" must be the last condition
//
// "require" before "import" is legal for resolvers but unusual, so it is
// reported as a warning rather than an error. String shorthand entries are
// not checked.
func ValidateExportsOrdering(m *Manifest) (warnings []string, err error) {
	for _, e := range m.Exports {
		if e.IsShorthand() {
			continue
		}
		names := e.ConditionNames()

		if i := slices.Index(names, ConditionTypes); i > 0 {
			return warnings, &ExportOrderingError{Key: e.Key, Condition: ConditionTypes, Expected: "first"}
		}
		if !inOrder(names, ConditionImport, ConditionRequire) {
			warnings = append(warnings, fmt.Sprintf("exports[%q]: the %q condition should come before %q", e.Key, ConditionImport, ConditionRequire))
		}
		if !inOrder(names, ConditionModule, ConditionImport) {
			return warnings, &ExportOrderingError{
				Key:       e.Key,
				Condition: ConditionModule,
				Expected:  fmt.Sprintf("before %q", ConditionImport),
			}
		}
		if i := slices.Index(names, ConditionDefault); i >= 0 && i != len(names)-1 {
			return warnings, &ExportOrderingError{Key: e.Key, Condition: ConditionDefault, Expected: "last"}
		}
	}
	return warnings, nil
}

// inOrder reports whether first precedes second, treating a missing
// condition as ordered.
func inOrder(names []Condition, first, second Condition) bool {
	i, j := slices.Index(names, first), slices.Index(names, second)
	return i < 0 || j < 0 || i < j
}
