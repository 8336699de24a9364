package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sufield/bst/internal/adapters/inbound/httpapi"
	"github.com/sufield/bst/internal/app"
)

func newServeCommand(opts *options) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Starts the HTTP API and, when configured, the trust bundle watchers.
Stops gracefully on SIGINT or SIGTERM.`,
		Example: `  bst serve --config bst.yaml
  bst serve --listen 127.0.0.1:9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.HTTP.ListenAddr = listen
			}
			logger := opts.logger(cfg, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.Bootstrap(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			srv, err := httpapi.NewServer(httpapi.ServerConfig{
				ListenAddr:        cfg.HTTP.ListenAddr,
				ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
				ShutdownTimeout:   cfg.HTTP.ShutdownTimeout,
			}, httpapi.NewRouter(a, logger, cfg.HTTP.MaxBodyBytes), logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			watchErr := make(chan error, 1)
			go func() { watchErr <- a.Run(ctx) }()

			serveErr := srv.Run(ctx)
			cancel()
			return errors.Join(serveErr, <-watchErr)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Override http.listen_addr")
	return cmd
}
