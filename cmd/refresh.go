package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefreshCmd(opts *wireOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch lists and catalog from their sources and update the local cache",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *app, _ []string) error {
			ctx := cmd.Context()
			app.orchestrator.Boot(ctx)

			refreshErr := runRefreshSpinner(ctx, cmd.ErrOrStderr(), app.orchestrator.RefreshAll)
			if refreshErr != nil {
				app.logger.Debug("refresh incomplete", "error", refreshErr)
			}

			state := app.orchestrator.Snapshot()
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "lists: %s\ncatalog: %s (%d horses)\n",
				state.ListsStatus, state.CatalogStatus, len(state.Catalog.Items)); err != nil {
				return err
			}
			if refreshErr != nil {
				_, err := fmt.Fprintln(cmd.ErrOrStderr(), "Some sources could not be refreshed; cached or built-in data is in use.")
				return err
			}
			return nil
		}),
	}
}
