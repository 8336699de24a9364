package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sufield/bst/internal/config"
)

func newValidateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Check a configuration file",
		Example: `  bst validate bst.yaml
  BST_CONFIG=bst.yaml bst validate`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath()
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("config file path required (argument, --config or BST_CONFIG)")
			}

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "configuration valid: %s\n", path)
			fmt.Fprintf(out, "  strict profile:   %t\n", cfg.Strict())
			fmt.Fprintf(out, "  signature trust:  %t\n", cfg.HasTrustSource(config.RoleSignature))
			fmt.Fprintf(out, "  decryption trust: %t\n", cfg.HasTrustSource(config.RoleDecryption))
			fmt.Fprintf(out, "  validators:       %d\n", len(cfg.Validators))
			for _, v := range cfg.Validators {
				fmt.Fprintf(out, "    - %s %v\n", v.Name(), v.Types)
			}
			return nil
		},
	}
}
