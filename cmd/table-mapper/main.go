// Command table-mapper resolves database table metadata from Go types.
package main

import (
	"os"

	"table-mapper/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
