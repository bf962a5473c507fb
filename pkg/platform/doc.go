// SPDX-License-Identifier: MPL-2.0

// Package platform names the runtimes a package can be built for and maps
// them onto bundler platforms.
package platform
