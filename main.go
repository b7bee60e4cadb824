// SPDX-License-Identifier: MPL-2.0

package main

import (
	cmd "gallery-cli/cmd/gallery"

	// Shipped contrib modules register themselves into the compiled-in
	// loader table.
	_ "gallery-cli/contrib/experimental"
)

func main() {
	cmd.Execute()
}
