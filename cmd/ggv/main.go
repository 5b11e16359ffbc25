// Command ggv extracts Gi Gaven Videre settlement statements from the
// command line and manages the organization master list.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := execute(newRootCmd()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
