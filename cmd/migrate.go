package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *wireOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Move values stored under legacy keys to their current names",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *app, _ []string) error {
			migrated := app.storage.MigrateLegacy(cmd.Context())
			if len(migrated) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Nothing to migrate")
				return err
			}
			for _, key := range migrated {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s\n", key); err != nil {
					return err
				}
			}
			return nil
		}),
	}
}
