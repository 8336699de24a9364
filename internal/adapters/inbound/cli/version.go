package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bst %s\n", opts.info.Version)
			fmt.Fprintf(out, "  commit: %s\n", opts.info.Commit)
			fmt.Fprintf(out, "  built:  %s\n", opts.info.Date)
			fmt.Fprintf(out, "  go:     %s\n", runtime.Version())
		},
	}
}
