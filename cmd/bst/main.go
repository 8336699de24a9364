// Command bst processes WS-Security BinarySecurityTokens from the command
// line or over HTTP.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sufield/bst/internal/adapters/inbound/cli"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := cli.NewRootCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
