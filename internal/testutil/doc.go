// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers shared across packages: package
// fixtures on disk (WriteFiles), polling for asynchronous outcomes
// (Eventually) and a manually advanced clock (FakeClock).
package testutil
