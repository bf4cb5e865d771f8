// Command cartctl browses the catalogue and keeps a cart in a local file,
// reconciled against the product backend the same way the storefront does.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
