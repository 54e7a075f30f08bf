package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.netreplay.io/netreplay/config"
	"go.netreplay.io/netreplay/pkg/models"
	"go.netreplay.io/netreplay/utils"
)

func init() {
	Register("inspect", Inspect)
}

// Inspect prints the transactions of a recording as a table.
func Inspect(ctx context.Context, logger *zap.Logger, conf *config.Config) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "inspect <recording>",
		Short:   "list the transactions stored in a recording",
		Example: `netreplay inspect recordings/TestCheckout.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := codecFor(logger, conf.Serializer, args[0])
			txns, err := c.Read(ctx)
			if err != nil {
				utils.LogError(logger, err, "failed to load the recording", zap.String("path", args[0]))
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "Method", "URI", "Status", "Body"})
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetAutoWrapText(false)
			table.SetBorder(false)

			for i, txn := range txns {
				body := string(models.EncodeBody(txn.Response.Body))
				table.Append([]string{
					strconv.Itoa(i + 1),
					string(txn.Request.Method),
					truncate(txn.Request.URI, 60),
					statusCell(txn.Response.Status),
					truncate(body, 40),
				})
			}
			table.Render()
			fmt.Printf("%d transaction(s) in %s\n", len(txns), c.Path())
			return nil
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd
}

func statusCell(status int) string {
	s := strconv.Itoa(status)
	switch {
	case status >= 500:
		return color.New(color.FgHiRed).Sprint(s)
	case status >= 400:
		return color.New(color.FgRed).Sprint(s)
	case status >= 300:
		return color.New(color.FgYellow).Sprint(s)
	default:
		return color.New(color.FgHiGreen).Sprint(s)
	}
}
