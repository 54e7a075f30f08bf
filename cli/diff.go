package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wI2L/jsondiff"
	"go.uber.org/zap"

	"go.netreplay.io/netreplay/config"
	"go.netreplay.io/netreplay/utils"
)

func init() {
	Register("diff", Diff)
}

// Diff prints the structural differences between two recordings as a JSON
// patch, one operation per line.
func Diff(ctx context.Context, logger *zap.Logger, conf *config.Config) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "diff <recording-a> <recording-b>",
		Short:   "compare two recordings structurally",
		Example: `netreplay diff recordings/old.json recordings/new.yaml`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := codecFor(logger, conf.Serializer, args[0]).Read(ctx)
			if err != nil {
				utils.LogError(logger, err, "failed to load the recording", zap.String("path", args[0]))
				return err
			}
			b, err := codecFor(logger, conf.Serializer, args[1]).Read(ctx)
			if err != nil {
				utils.LogError(logger, err, "failed to load the recording", zap.String("path", args[1]))
				return err
			}

			patch, err := jsondiff.Compare(a, b)
			if err != nil {
				utils.LogError(logger, err, "failed to diff the recordings")
				return err
			}
			if len(patch) == 0 {
				fmt.Println("recordings are identical")
				return nil
			}

			added := color.New(color.FgHiGreen).SprintFunc()
			removed := color.New(color.FgHiRed).SprintFunc()
			changed := color.New(color.FgYellow).SprintFunc()
			for _, op := range patch {
				value, _ := json.Marshal(op.Value)
				switch op.Type {
				case jsondiff.OperationAdd:
					fmt.Printf("%s %s %s\n", added("+"), op.Path, value)
				case jsondiff.OperationRemove:
					fmt.Printf("%s %s\n", removed("-"), op.Path)
				default:
					fmt.Printf("%s %s %s\n", changed("~"), op.Path, value)
				}
			}
			return nil
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd
}
