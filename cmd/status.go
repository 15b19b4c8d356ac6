package cmd

import (
	"fmt"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *wireOptions) *cobra.Command {
	var refresh bool
	var list string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"boot"},
		Short:   "Boot from local storage and show the current checklist state",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *app, _ []string) error {
			return runStatus(cmd, app, refresh, list, asJSON)
		}),
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refresh lists and catalog from their sources before showing")
	cmd.Flags().StringVar(&list, "list", "", "Show a single list column by key")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runStatus(cmd *cobra.Command, app *app, refresh bool, list string, asJSON bool) error {
	ctx := cmd.Context()
	state := app.orchestrator.Boot(ctx)

	if list != "" && !knownColumn(state.ListsConfig, list) {
		return fmt.Errorf("list %q: %w", list, domain.ErrUnknownListKey)
	}

	if refresh {
		if err := runRefreshSpinner(ctx, cmd.ErrOrStderr(), app.orchestrator.RefreshAll); err != nil {
			app.logger.Debug("refresh incomplete", "error", err)
		}
		state = app.orchestrator.Snapshot()
	}

	return writeState(cmd, app, state, list, asJSON)
}

func knownColumn(cfg domain.ListsConfig, key string) bool {
	for _, def := range cfg {
		if def.Key == key {
			return true
		}
	}
	return false
}
