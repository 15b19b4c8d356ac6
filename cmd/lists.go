package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bnema/tackcheck/internal/domain"
	"github.com/spf13/cobra"
)

func newListsCmd(opts *wireOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show the list configuration currently in effect",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *app, _ []string) error {
			state := app.orchestrator.Boot(cmd.Context())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), state.ListsConfig)
			}
			return writeListsTable(cmd.OutOrStdout(), state.ListsConfig, state.ListsStatus)
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newCatalogCmd(opts *wireOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the horse catalog new sessions are built from",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *app, _ []string) error {
			state := app.orchestrator.Boot(cmd.Context())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), state.Catalog.Items)
			}
			return writeCatalogTable(cmd.OutOrStdout(), state.Catalog, state.CatalogStatus)
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func writeListsTable(w io.Writer, cfg domain.ListsConfig, status domain.ResourceStatus) error {
	if _, err := fmt.Fprintf(w, "lists (%s)\n", status); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tLABEL\tTYPE\tSHOWN IN")
	for _, def := range cfg {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", def.Key, def.Label, def.Type, shownIn(def))
	}
	return tw.Flush()
}

func writeCatalogTable(w io.Writer, catalog domain.Catalog, status domain.ResourceStatus) error {
	header := fmt.Sprintf("catalog (%s)", status)
	if !catalog.SavedAt.IsZero() {
		header += fmt.Sprintf(", saved %s", catalog.SavedAt.Format("2006-01-02 15:04"))
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tHORSE\tBARN ACTIVE")
	for i, item := range catalog.Items {
		fmt.Fprintf(tw, "%s\t%s\t%t\n", domain.HorseIDForIndex(i), item.HorseName, item.BarnActive)
	}
	return tw.Flush()
}

func shownIn(def domain.ListDef) string {
	var places []string
	if def.InNav {
		places = append(places, "nav")
	}
	if def.InSummary {
		places = append(places, "summary")
	}
	if def.InShare {
		places = append(places, "share")
	}
	if len(places) == 0 {
		return "-"
	}
	return strings.Join(places, ",")
}
