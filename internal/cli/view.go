package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/linecore/core"
	"github.com/dshills/linecore/internal/config"
	"github.com/dshills/linecore/internal/logging"
	"github.com/dshills/linecore/internal/view"
)

func newViewCommand(global *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Edit a file in the terminal",
		Long: `Open a file in a minimal terminal editor.

Arrows move (with Shift to extend), Esc collapses selections, Ctrl-Z and
Ctrl-Y undo and redo, Ctrl-S saves and Ctrl-Q quits. When --config is given
the file is watched, and a changed line ending applies to the next save.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), args[0], global)
		},
	}
	return cmd
}

func runView(ctx context.Context, path string, global *globalFlags) error {
	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}

	opts := []core.Option{core.WithConfig(cfg)}
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		opts = append(opts, core.WithReader(f))
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()

	// Log lines would corrupt the screen.
	logger := logging.Discard()
	v := view.New(screen, logger)
	if err := v.Open(path, opts...); err != nil {
		return err
	}
	defer v.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if global.configPath != "" {
		go watchConfig(ctx, global.configPath, v)
	}

	if err := v.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// watchConfig applies changes to the configuration file at path until ctx
// is done. A watcher that cannot start is reported in the status line.
func watchConfig(ctx context.Context, path string, v *view.View) {
	err := config.Watch(ctx, path, config.DefaultDebounce, v.Reload)
	if err != nil && !errors.Is(err, context.Canceled) {
		v.Notify("config watch: " + err.Error())
	}
}
