package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	filesource "github.com/bnema/tackcheck/internal/adapters/source/file"
	"github.com/bnema/tackcheck/internal/application"
	"github.com/spf13/cobra"
)

var errNoWatchedSources = errors.New("no local source files configured (set sources.lists_file or sources.catalog_file)")

func newWatchCmd(opts *wireOptions) *cobra.Command {
	var duration time.Duration
	var list string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render whenever the local lists or catalog source file changes",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, app *app, _ []string) error {
			return runWatch(cmd, app, list, duration)
		}),
	}

	cmd.Flags().DurationVar(&duration, "for", 0, "Stop after this long (default: until interrupted)")
	cmd.Flags().StringVar(&list, "list", "", "Show a single list column by key")

	return cmd
}

func runWatch(cmd *cobra.Command, app *app, list string, duration time.Duration) error {
	listsFile, err := absOrEmpty(app.cfg.Sources.ListsFile)
	if err != nil {
		return err
	}
	catalogFile, err := absOrEmpty(app.cfg.Sources.CatalogFile)
	if err != nil {
		return err
	}
	if listsFile == "" && catalogFile == "" {
		return errNoWatchedSources
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	app.onFrame = func(state application.State) {
		if err := writeState(cmd, app, state, list, false); err != nil {
			app.logger.Warn("render frame failed", "error", err)
		}
	}

	app.orchestrator.Boot(ctx)

	onChange := func(path string) {
		var err error
		switch path {
		case listsFile:
			err = app.lists.Revalidate(ctx)
		case catalogFile:
			err = app.catalog.Revalidate(ctx)
		default:
			return
		}
		if err != nil {
			app.logger.Debug("source change ignored", "path", path, "error", err)
		}
	}

	err = filesource.Watch(ctx, app.logger, onChange, listsFile, catalogFile)
	if refreshErr := app.orchestrator.Wait(); refreshErr != nil {
		app.logger.Debug("initial refresh incomplete", "error", refreshErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("watch sources: %w", err)
	}
	return nil
}

func absOrEmpty(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve source path %q: %w", path, err)
	}
	return abs, nil
}
