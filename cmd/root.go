package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:           "tack",
		Short:         "Tack Check (tack): track horses against packing lists",
		Long:          "tack keeps a per-device checklist session of horses against configurable packing lists. Sessions expire after 12 hours; list and horse catalogs are cached locally and refreshed from their sources in the background.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug logs to stderr (or log.file)")

	opts := &wireOptions{debug: &debug}

	rootCmd.AddCommand(
		newVersionCmd(),
		newStatusCmd(opts),
		newSessionCmd(opts),
		newListsCmd(opts),
		newCatalogCmd(opts),
		newRefreshCmd(opts),
		newWatchCmd(opts),
		newMigrateCmd(opts),
		newMetricsCmd(opts),
	)

	return rootCmd
}
