package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.netreplay.io/netreplay/config"
	"go.netreplay.io/netreplay/pkg/filter"
	"go.netreplay.io/netreplay/utils"
)

func init() {
	Register("redact", Redact)
}

// Redact re-applies filters to a recording in place, for scrubbing secrets
// out of recordings that were committed unfiltered. An empty replacement
// value deletes the field.
func Redact(ctx context.Context, logger *zap.Logger, conf *config.Config) *cobra.Command {
	var (
		headerFilters map[string]string
		queryFilters  map[string]string
		uriFilters    map[string]string
	)

	var cmd = &cobra.Command{
		Use:     "redact <recording>",
		Short:   "apply filters to an existing recording in place",
		Example: `netreplay redact recordings/TestLogin.json --filter-header Authorization= --filter-querystring token=REDACTED`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			headerSpec := specFromMap(merge(conf.FilterHeaders, headerFilters))
			querySpec := specFromMap(merge(conf.FilterQuerystring, queryFilters))
			uriSpec := specFromMap(merge(conf.FilterURI, uriFilters))
			if len(headerSpec) == 0 && len(querySpec) == 0 && len(uriSpec) == 0 {
				return fmt.Errorf("no filters configured, nothing to redact")
			}

			c := codecFor(logger, conf.Serializer, args[0])
			txns, err := c.Read(ctx)
			if err != nil {
				utils.LogError(logger, err, "failed to load the recording", zap.String("path", args[0]))
				return err
			}

			for _, txn := range txns {
				txn.Request.URI = filter.URI(txn.Request.URI, uriSpec)
				txn.Request.Headers = filter.Headers(txn.Request.Headers, headerSpec)
				txn.Request.Querystring = filter.Querystring(txn.Request.Querystring, querySpec)
				txn.Response.Headers = filter.Headers(txn.Response.Headers, headerSpec)
			}

			if err := c.Write(ctx, txns); err != nil {
				utils.LogError(logger, err, "failed to write the redacted recording", zap.String("path", c.Path()))
				return err
			}
			logger.Info("redacted recording",
				zap.String("path", c.Path()), zap.Int("transactions", len(txns)))
			return nil
		},
	}

	cmd.Flags().StringToStringVar(&headerFilters, "filter-header", nil, "Header filter as key=replacement; empty replacement deletes")
	cmd.Flags().StringToStringVar(&queryFilters, "filter-querystring", nil, "Querystring filter as key=replacement; empty replacement deletes")
	cmd.Flags().StringToStringVar(&uriFilters, "filter-uri", nil, "URI substring filter as substring=replacement; empty replacement deletes")

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd
}

func merge(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
