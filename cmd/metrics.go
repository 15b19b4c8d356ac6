package cmd

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

func newMetricsCmd(opts *wireOptions) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Boot, optionally refresh, and print engine counters in Prometheus text format",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *app, _ []string) error {
			ctx := cmd.Context()
			app.orchestrator.Boot(ctx)
			if refresh {
				if err := app.orchestrator.RefreshAll(ctx); err != nil {
					app.logger.Debug("refresh incomplete", "error", err)
				}
			}

			families, err := prometheus.DefaultGatherer.Gather()
			if err != nil {
				return fmt.Errorf("gather metrics: %w", err)
			}
			for _, family := range families {
				if !strings.HasPrefix(family.GetName(), "tack_") {
					continue
				}
				if _, err := expfmt.MetricFamilyToText(cmd.OutOrStdout(), family); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refresh lists and catalog before printing")

	return cmd
}
