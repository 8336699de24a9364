package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sufield/bst/internal/config"
	"github.com/sufield/bst/internal/logging"
)

// Viper keys.
const (
	ConfigKey   = "config"
	LogLevelKey = "log.level"
	EnvPrefix   = "BST"
)

// VersionInfo is stamped at build time.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// options is the state shared by every subcommand of one root.
type options struct {
	v    *viper.Viper
	info VersionInfo
}

// NewRootCommand builds the bst command tree.
func NewRootCommand(info VersionInfo) *cobra.Command {
	opts := &options{v: viper.New(), info: info}

	root := &cobra.Command{
		Use:   "bst",
		Short: "Process WS-Security BinarySecurityTokens",
		Long: `bst decodes the BinarySecurityTokens of a secured message, resolves their
certificate chains against the configured trust material, runs the configured
validators and reports the authenticated principal of every token.`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Configuration file (env BST_CONFIG)")
	flags.String("log-level", "", "Override the configured log level (debug, info, warn, error)")
	_ = opts.v.BindPFlag(ConfigKey, flags.Lookup("config"))
	_ = opts.v.BindPFlag(LogLevelKey, flags.Lookup("log-level"))

	opts.v.SetEnvPrefix(EnvPrefix)
	opts.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	opts.v.AutomaticEnv()

	root.AddCommand(
		newDecodeCommand(opts),
		newProcessCommand(opts),
		newServeCommand(opts),
		newValidateCommand(opts),
		newVersionCommand(opts),
	)
	return root
}

// configPath returns the config file named by flag or environment.
func (o *options) configPath() string {
	return o.v.GetString(ConfigKey)
}

// loadConfig reads the configured file, or returns defaults when none is set.
func (o *options) loadConfig() (*config.Config, error) {
	path := o.configPath()
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// logger builds the command logger; the --log-level flag wins over the file.
func (o *options) logger(cfg *config.Config, out io.Writer) zerolog.Logger {
	level := cfg.Log.Level
	if l := o.v.GetString(LogLevelKey); l != "" {
		level = l
	}
	return logging.New(logging.Config{Level: level, Format: cfg.Log.Format, Output: out})
}
