// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries what was attempted, on which resource and how to fix
// it. The Issue catalog holds the Markdown help rendered by `packup explain`
// for every fatal error class of a watch session.
package issue
