package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd(opts *wireOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and edit the checklist session",
	}

	cmd.AddCommand(
		newSessionShowCmd(opts),
		newSessionNewCmd(opts),
		newSessionEnsureCmd(opts),
		newSessionClearCmd(opts),
		newSessionMarkCmd(opts),
		newSessionStateCmd(opts),
	)

	return cmd
}

func newSessionShowCmd(opts *wireOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored session as JSON",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *app, _ []string) error {
			state := app.orchestrator.Boot(cmd.Context())
			if state.Session == nil {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No active session.")
				return err
			}
			return writeJSON(cmd.OutOrStdout(), toSessionJSON(state.Session))
		}),
	}
}

func newSessionNewCmd(opts *wireOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a fresh session from the horse catalog, replacing any current one",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *app, _ []string) error {
			ctx := cmd.Context()
			app.orchestrator.Boot(ctx)
			session := app.sessions.CreateNew(ctx)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Created session %s with %d horses\n", session.ID, len(session.Horses))
			return err
		}),
	}
}

func newSessionEnsureCmd(opts *wireOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Resume the stored session or create one if none is active",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *app, _ []string) error {
			ctx := cmd.Context()
			app.orchestrator.Boot(ctx)
			session := app.sessions.Ensure(ctx)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), toSessionJSON(session))
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Session %s (%d horses)\n", session.ID, len(session.Horses))
			return err
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session as JSON")

	return cmd
}

func newSessionClearCmd(opts *wireOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the current session",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *app, _ []string) error {
			ctx := cmd.Context()
			app.orchestrator.Boot(ctx)
			app.sessions.Clear(ctx)
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Session cleared")
			return err
		}),
	}
}

func newSessionMarkCmd(opts *wireOptions) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "mark <horse-id> <list-key>",
		Short: "Check a horse off on a packing list",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, app *app, args []string) error {
			ctx := cmd.Context()
			app.orchestrator.Boot(ctx)
			app.sessions.Ensure(ctx)

			horseID, key := args[0], args[1]
			if err := app.sessions.SetListFlag(ctx, horseID, key, !off); err != nil {
				return err
			}
			return writeFlagResult(cmd, horseID, app.lists.ListsConfig().Label(key), !off)
		}),
	}

	cmd.Flags().BoolVar(&off, "off", false, "Uncheck instead of check")

	return cmd
}

func newSessionStateCmd(opts *wireOptions) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "state <horse-id>",
		Short: "Add a horse to (or remove it from) the active working set",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, app *app, args []string) error {
			ctx := cmd.Context()
			app.orchestrator.Boot(ctx)
			app.sessions.Ensure(ctx)

			horseID := args[0]
			if err := app.sessions.SetHorseState(ctx, horseID, !off); err != nil {
				return err
			}

			label := "state"
			if def, ok := app.lists.StateDef(); ok {
				label = def.Label
			}
			return writeFlagResult(cmd, horseID, label, !off)
		}),
	}

	cmd.Flags().BoolVar(&off, "off", false, "Remove instead of add")

	return cmd
}

func writeFlagResult(cmd *cobra.Command, horseID, label string, value bool) error {
	mark := "checked"
	if !value {
		mark = "unchecked"
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", horseID, label, mark)
	return err
}
