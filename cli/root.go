package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go.netreplay.io/netreplay/config"
	"go.netreplay.io/netreplay/utils"
	"go.netreplay.io/netreplay/utils/log"
)

var rootExamples = `
  Inspect a recording:
	netreplay inspect recordings/TestCheckout.json

  Diff two recordings:
	netreplay diff recordings/old.json recordings/new.json

  Redact committed secrets in place:
	netreplay redact recordings/TestLogin.json --filter-header Authorization=

  Convert a recording between formats:
	netreplay convert recordings/TestCheckout.json recordings/TestCheckout.yaml
`

// SetFlags registers the persistent flags shared by every subcommand and
// binds them to viper.
func SetFlags(logger *zap.Logger, cmd *cobra.Command, conf *config.Config) error {
	cmd.PersistentFlags().Bool("debug", conf.Debug, "Run in debug mode")
	cmd.PersistentFlags().String("configPath", conf.ConfigPath, "Path to the directory holding the netreplay configuration file")
	cmd.PersistentFlags().String("serializer", conf.Serializer, "Recording codec: json or yaml")

	err := viper.BindPFlags(cmd.PersistentFlags())
	if err != nil {
		logger.Error("failed to bind flags to config", zap.Error(err))
		return err
	}
	return nil
}

// CheckPersistent loads the configuration file when present and applies the
// bound flags on top of it.
func CheckPersistent(logger *zap.Logger, conf *config.Config) error {
	if conf.ConfigPath != "" {
		viper.SetConfigName("netreplay")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(conf.ConfigPath)
		if err := viper.ReadInConfig(); err != nil {
			logger.Error("failed to read the configuration file", zap.Error(err))
			return err
		}
	}
	if err := viper.Unmarshal(conf); err != nil {
		logger.Error("failed to unmarshal the config", zap.Error(err))
		return err
	}
	logger.Debug("initialized with configuration", zap.Any("conf", conf))
	return nil
}

// Root builds the netreplay root command and attaches every registered
// subcommand.
func Root(ctx context.Context, logger *zap.Logger) *cobra.Command {
	conf := config.New()

	var rootCmd = &cobra.Command{
		Use:     "netreplay",
		Short:   "Inspect and maintain netreplay HTTP recordings",
		Example: rootExamples,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := CheckPersistent(logger, conf); err != nil {
				return err
			}
			if conf.Debug {
				debugLogger, err := log.ChangeLogLevel(zapcore.DebugLevel)
				if err != nil {
					return err
				}
				*logger = *debugLogger
			}
			return nil
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	if err := SetFlags(logger, rootCmd, conf); err != nil {
		utils.LogError(logger, err, "failed to set the root command flags")
		return nil
	}

	for _, hook := range Registered {
		rootCmd.AddCommand(hook(ctx, logger, conf))
	}
	return rootCmd
}
