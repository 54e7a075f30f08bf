package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.netreplay.io/netreplay/config"
	"go.netreplay.io/netreplay/utils"
)

func init() {
	Register("convert", Convert)
}

// Convert recodes a recording from one codec to another, picked by file
// extension.
func Convert(ctx context.Context, logger *zap.Logger, conf *config.Config) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "convert <in> <out>",
		Short:   "convert a recording between the JSON and YAML formats",
		Example: `netreplay convert recordings/TestCheckout.json recordings/TestCheckout.yaml`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := codecFor(logger, conf.Serializer, args[0])
			out := codecFor(logger, conf.Serializer, args[1])

			txns, err := in.Read(ctx)
			if err != nil {
				utils.LogError(logger, err, "failed to load the recording", zap.String("path", args[0]))
				return err
			}
			if err := out.Write(ctx, txns); err != nil {
				utils.LogError(logger, err, "failed to write the converted recording", zap.String("path", out.Path()))
				return err
			}
			logger.Info("converted recording",
				zap.String("from", in.Path()), zap.String("to", out.Path()),
				zap.Int("transactions", len(txns)))
			return nil
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd
}
