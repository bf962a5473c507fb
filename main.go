// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/packup/packup/cmd/packup"

func main() {
	cmd.Execute()
}
