package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sufield/bst/internal/decoder"
	"github.com/sufield/bst/internal/dto"
	"github.com/sufield/bst/internal/wssxml"
)

func newDecodeCommand(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "decode <message.xml|->",
		Short: "Decode the tokens of a message without resolving or validating them",
		Example: `  bst decode request.xml
  cat request.xml | bst decode - -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			elems, err := wssxml.Extract(in)
			if err != nil {
				return err
			}

			out := make([]dto.Token, 0, len(elems))
			for i, elem := range elems {
				tok, err := decoder.Decode(elem, cfg.Strict())
				if err != nil {
					return fmt.Errorf("token %d: %w", i, err)
				}
				out = append(out, dto.FromToken(elem, tok))
			}
			return write(cmd.OutOrStdout(), format, out)
		},
	}
	addOutputFlag(cmd, &format)
	return cmd
}
