// Command vimchange applies vim change operations to text.
package main

import (
	"fmt"
	"os"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	root.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
