package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/vimchange/internal/charclass"
	"github.com/dshills/vimchange/internal/config"
	"github.com/dshills/vimchange/internal/engine"
	"github.com/dshills/vimchange/internal/log"
	"github.com/dshills/vimchange/internal/tui"
)

func newEditCmd(c *cli) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Try changes interactively in the terminal",
		Long: `Edit opens the buffer in a terminal view. In Normal mode type a
descriptor (w, 2cc, ci(, ...) to change at every cursor, then type the
replacement and press Esc.

  Esc     back to Normal mode      u       undo
  Ctrl-R  redo                     Ctrl-N  add a cursor below
  arrows  move cursors             q       quit

With --config the word characters are reloaded when the file changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			if write && path == "" {
				return errors.New("--write needs a file argument")
			}
			content, err := readInput(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}

			// The screen owns the terminal; keep log output off it.
			if c.cfg.Log.File == "" {
				if err := c.silenceLog(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e := c.newEngine(content)
			if c.cfgFile != "" {
				if err := config.Watch(ctx, c.cfgFile, config.DefaultWatchDebounce, reloadClassifier(e)); err != nil {
					log.Warn(log.CatConfig, "config watch disabled", "error", err)
				}
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("creating screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initializing screen: %w", err)
			}
			err = runEditor(ctx, screen, e)
			screen.Fini()
			if err != nil && ctx.Err() == nil {
				return err
			}

			if write {
				return writeOutput(path, e.Text())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the buffer back to file on quit")
	return cmd
}

// runEditor drives an initialized screen until the user quits or ctx is done.
func runEditor(ctx context.Context, screen tcell.Screen, e *engine.Engine) error {
	app := tui.New(screen, e)
	defer app.Close()
	return app.Run(ctx)
}

// reloadClassifier applies the word characters of each reloaded config to e.
// Failed reloads keep the current classifier.
func reloadClassifier(e *engine.Engine) config.ReloadFunc {
	return func(cfg config.Config, err error) {
		if err != nil {
			log.ErrorErr(log.CatConfig, "config reload failed", err)
			return
		}
		e.SetClassifier(charclass.Classifier{WordChars: cfg.Editor.WordChars})
	}
}

func (c *cli) silenceLog() error {
	opts, err := c.cfg.LogOptions()
	if err != nil {
		return err
	}
	opts.Writer = io.Discard
	closeLog, err := log.Init(opts)
	if err != nil {
		return err
	}
	c.closeLog = closeLog
	return nil
}
