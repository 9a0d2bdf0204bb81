package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/vimchange/internal/script"
)

func newScriptCmd(c *cli) *cobra.Command {
	var (
		output  string
		timeout time.Duration
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "script <script.lua> [file]",
		Short: "Run a Lua script against a buffer",
		Long: `Script loads file (or stdin) into a session and runs a Lua script that
drives it through the vc module:

  vc.set_cursors(0, 8)
  vc.change("cw")
  vc.insert("renamed")
  vc.escape()

Script output from print goes to stderr. The final buffer is printed to
stdout unless --output or --quiet is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 2 {
				path = args[1]
			}
			content, err := readInput(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}

			e := c.newEngine(content)
			host := script.NewHost(e,
				script.WithOutput(cmd.ErrOrStderr()),
				script.WithTimeout(timeout),
			)
			defer host.Close()

			if err := host.RunFile(cmd.Context(), args[0]); err != nil {
				return err
			}

			switch {
			case output != "":
				return writeOutput(output, e.Text())
			case quiet:
				return nil
			}
			_, err = io.WriteString(cmd.OutOrStdout(), e.Text())
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the buffer to this file")
	cmd.Flags().DurationVar(&timeout, "timeout", script.DefaultTimeout, "script time limit")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the buffer")
	return cmd
}

