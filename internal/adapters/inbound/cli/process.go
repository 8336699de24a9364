package cli

import (
	"github.com/spf13/cobra"

	"github.com/sufield/bst/internal/app"
	"github.com/sufield/bst/internal/dto"
)

func newProcessCommand(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "process <message.xml|->",
		Short: "Process every token of a message and print the results",
		Long: `Runs every BinarySecurityToken of the message through decoding, certificate
resolution and the configured validators. Processing stops at the first token
that fails.`,
		Example: `  bst process --config bst.yaml request.xml
  bst process -o json - < request.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger := opts.logger(cfg, cmd.ErrOrStderr())

			a, err := app.Bootstrap(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			results, doc, err := a.ProcessDocument(cmd.Context(), in)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), format, dto.Document{
				Document: doc.ID(),
				Results:  dto.FromResults(results),
			})
		},
	}
	addOutputFlag(cmd, &format)
	return cmd
}
