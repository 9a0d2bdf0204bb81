package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/dshills/vimchange/internal/descriptor"
	"github.com/dshills/vimchange/internal/engine"
	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/operator"
	"github.com/dshills/vimchange/internal/register"
)

// maxCount caps repeat counts at the largest count a descriptor can carry.
const maxCount = math.MaxInt32

type applyOptions struct {
	cursors  []string
	count    int
	register string
	insert   string
	diff     bool
	write    bool
	show     bool
}

func newApplyCmd(c *cli) *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "apply <descriptor> [file]",
		Short: "Apply one change to a file or stdin",
		Long: `Apply runs the change operator with a motion or text object at every
cursor and prints the resulting text.

Cursors are byte offsets ("12") or 1-based line:column pairs ("3:5").
Descriptors are vim keys with an optional count: w, 3w, cc, $, f;, iw, a(, i".`,
		Example: `  vimchange apply cw --cursor 0 --insert foo main.go
  echo 'f(a, b)' | vimchange apply 'i(' --cursor 2 --diff`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runApply(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&opts.cursors, "cursor", []string{"0"}, "cursor position, repeat for more cursors")
	flags.IntVarP(&opts.count, "count", "n", 0, "count, multiplied with the descriptor's count")
	flags.StringVarP(&opts.register, "register", "r", "", "register receiving the changed text")
	flags.StringVarP(&opts.insert, "insert", "i", "", "text typed at every cursor after the change")
	flags.BoolVarP(&opts.diff, "diff", "d", false, "print a patch instead of the result")
	flags.BoolVarP(&opts.write, "write", "w", false, "write the result back to file")
	flags.BoolVar(&opts.show, "show-register", false, "print the register contents to stderr")
	return cmd
}

func (c *cli) runApply(cmd *cobra.Command, args []string, opts applyOptions) error {
	d, err := descriptor.Parse(args[0])
	if err != nil {
		return err
	}
	if opts.count < 0 {
		return fmt.Errorf("count must not be negative: %d", opts.count)
	}
	var reg rune
	if opts.register != "" {
		r, size := utf8.DecodeRuneInString(opts.register)
		if size != len(opts.register) || !register.IsValid(r) {
			return fmt.Errorf("invalid register %q", opts.register)
		}
		reg = r
	}

	var path string
	if len(args) == 2 {
		path = args[1]
	}
	if opts.write && path == "" {
		return errors.New("--write needs a file argument")
	}
	original, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	e := c.newEngine(original)
	offsets, err := parseCursors(e.Snapshot(), opts.cursors)
	if err != nil {
		return err
	}
	if err := e.SetCursors(offsets...); err != nil {
		return err
	}

	var changeOpts []operator.Option
	if reg != 0 {
		changeOpts = append(changeOpts, operator.WithRegister(reg))
	}
	var res operator.Result
	if d.Kind == descriptor.KindObject {
		res = operator.ChangeObject(e, d.Object, d.Around, changeOpts...)
	} else {
		res = operator.ChangeMotion(e, d.Motion, multiplyCounts(d.Count, opts.count), changeOpts...)
	}
	if res.Err != nil {
		return fmt.Errorf("%s: %w", d.Name(), res.Err)
	}
	if !res.Success {
		fmt.Fprintf(cmd.ErrOrStderr(), "vimchange: %s: nothing to change\n", d.Name())
	} else if opts.insert != "" {
		if err := e.Insert(opts.insert); err != nil {
			return err
		}
	}
	e.Escape()

	if opts.show {
		fmt.Fprintf(cmd.ErrOrStderr(), "register: %q linewise=%t\n", res.Register.Text, res.Register.Linewise)
	}

	result := e.Text()
	switch {
	case opts.write:
		return writeOutput(path, result)
	case opts.diff:
		_, err = io.WriteString(cmd.OutOrStdout(), patch(original, result))
	default:
		_, err = io.WriteString(cmd.OutOrStdout(), result)
	}
	return err
}

// multiplyCounts combines a descriptor count with a flag count the way vim
// combines the counts of "2c3w". The product saturates at maxCount.
func multiplyCounts(descCount, flagCount int) int {
	switch {
	case flagCount == 0:
		return min(descCount, maxCount)
	case descCount == 0:
		return min(flagCount, maxCount)
	case descCount > maxCount/flagCount:
		return maxCount
	}
	return min(descCount*flagCount, maxCount)
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func writeOutput(path, text string) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(text), perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// parseCursors resolves cursor arguments against snap. A cursor is a byte
// offset or a 1-based "line:column" pair.
func parseCursors(snap *buffer.Snapshot, args []string) ([]engine.ByteOffset, error) {
	offsets := make([]engine.ByteOffset, 0, len(args))
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			off, err := parseCursor(snap, strings.TrimSpace(field))
			if err != nil {
				return nil, err
			}
			offsets = append(offsets, off)
		}
	}
	return offsets, nil
}

func parseCursor(snap *buffer.Snapshot, arg string) (engine.ByteOffset, error) {
	line, col, ok := strings.Cut(arg, ":")
	if !ok {
		off, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || off < 0 {
			return 0, fmt.Errorf("invalid cursor %q", arg)
		}
		return off, nil
	}
	l, err := strconv.ParseUint(line, 10, 32)
	if err != nil || l == 0 {
		return 0, fmt.Errorf("invalid cursor line %q", arg)
	}
	cl, err := strconv.ParseUint(col, 10, 32)
	if err != nil || cl == 0 {
		return 0, fmt.Errorf("invalid cursor column %q", arg)
	}
	return snap.PointToOffset(buffer.Point{Line: uint32(l - 1), Column: uint32(cl - 1)}), nil
}

// patch renders the difference between before and after as a unified-style
// patch.
func patch(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.PatchToText(dmp.PatchMake(before, diffs))
}
