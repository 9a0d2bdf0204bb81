// Package tui is a terminal host for an engine session. In Normal mode
// every typed descriptor ("w", "2e", "cc", "ci(" written as "i(") is applied
// as a change at all cursors; in Insert mode keys type text.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/vimchange/internal/descriptor"
	"github.com/dshills/vimchange/internal/engine"
	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/log"
	"github.com/dshills/vimchange/internal/mode"
	"github.com/dshills/vimchange/internal/operator"
)

const tabWidth = 4

// Styles used by the view.
var (
	styleText   = tcell.StyleDefault
	styleCursor = tcell.StyleDefault.Reverse(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleError  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// App renders one engine session and feeds it key events.
type App struct {
	screen tcell.Screen
	engine *engine.Engine

	pending string // descriptor typed so far in Normal mode
	message string
	isError bool
	top     int // first visible line

	unsubscribe func()
}

// New creates an App drawing to an initialized screen.
func New(screen tcell.Screen, e *engine.Engine) *App {
	a := &App{screen: screen, engine: e}
	a.unsubscribe = e.Subscribe(a.onEvent)
	return a
}

// Close detaches the App from the engine.
func (a *App) Close() {
	a.unsubscribe()
}

// Run draws and handles events until q is pressed in Normal mode or ctx is
// done.
func (a *App) Run(ctx context.Context) error {
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		if parent.Err() != nil {
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}()

	a.Draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && parent.Err() != nil {
			return parent.Err()
		}
		if !a.HandleEvent(ev) {
			return nil
		}
		a.Draw()
	}
}

func (a *App) onEvent(ev engine.Event) {
	if ev.Kind == engine.EventUndo || ev.Kind == engine.EventRedo {
		a.setMessage(ev.Kind.String())
	}
}

func (a *App) setMessage(msg string) {
	a.message, a.isError = msg, false
}

func (a *App) setError(format string, args ...any) {
	a.message, a.isError = fmt.Sprintf(format, args...), true
}

// HandleEvent applies ev and reports whether the App should keep running.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if a.engine.Mode() == mode.Insert {
			a.handleInsertKey(ev)
			return true
		}
		return a.handleNormalKey(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleNormalKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		a.pending = ""
		a.engine.Escape()
		return true
	case tcell.KeyCtrlR:
		a.report(a.engine.Redo())
		return true
	case tcell.KeyCtrlN:
		a.report(addCursorBelow(a.engine))
		return true
	case tcell.KeyLeft, tcell.KeyRight, tcell.KeyUp, tcell.KeyDown:
		a.report(moveCursors(a.engine, arrowMotion(ev.Key())))
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	r := ev.Rune()
	if a.pending == "" {
		switch r {
		case 'q':
			return false
		case 'u':
			a.report(a.engine.Undo())
			return true
		}
	}

	a.pending += string(r)
	d, err := descriptor.Parse(a.pending)
	if err != nil {
		if !isPrefix(a.pending) {
			a.setError("unknown: %s", a.pending)
			a.pending = ""
		}
		return true
	}
	a.pending = ""
	a.apply(d)
	return true
}

func (a *App) apply(d descriptor.Descriptor) {
	var res operator.Result
	if d.Kind == descriptor.KindObject {
		res = operator.ChangeObject(a.engine, d.Object, d.Around)
	} else {
		res = operator.ChangeMotion(a.engine, d.Motion, d.Count)
	}
	switch {
	case res.Err != nil:
		a.setError("%v", res.Err)
	case !res.Success:
		a.setMessage("no " + d.Name())
	default:
		a.setMessage("change " + d.Name())
	}
	log.Debug(log.CatUI, "descriptor applied", "name", d.Name(), "success", res.Success)
}

func (a *App) handleInsertKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.engine.Escape()
	case tcell.KeyEnter:
		a.report(a.engine.Insert("\n"))
	case tcell.KeyTab:
		a.report(a.engine.Insert("\t"))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.report(deleteBackward(a.engine))
	case tcell.KeyLeft, tcell.KeyRight, tcell.KeyUp, tcell.KeyDown:
		a.report(moveCursors(a.engine, arrowMotion(ev.Key())))
	case tcell.KeyRune:
		a.report(a.engine.Insert(string(ev.Rune())))
	}
}

func (a *App) report(err error) {
	if err != nil {
		a.setError("%v", err)
	}
}

// isPrefix reports whether more keys could complete p into a descriptor.
func isPrefix(p string) bool {
	rest := strings.TrimLeft(p, "0123456789")
	if rest == "" {
		return true
	}
	switch rest {
	case "f", "F", "t", "T":
		return true
	}
	for _, k := range descriptor.MotionKeys() {
		if strings.HasPrefix(k, rest) {
			return true
		}
	}
	for _, k := range descriptor.ObjectKeys() {
		if strings.HasPrefix(k, rest) {
			return true
		}
	}
	return false
}

// Draw renders the buffer, cursors and status line.
func (a *App) Draw() {
	a.screen.Clear()
	width, height := a.screen.Size()
	if height < 2 {
		a.screen.Show()
		return
	}
	textRows := height - 1

	snap := a.engine.Snapshot()
	cursors := a.engine.Cursors()
	heads := make(map[buffer.ByteOffset]bool, len(cursors))
	for _, c := range cursors {
		heads[c] = true
	}

	primaryLine := int(snap.LineOf(cursors[0]))
	switch {
	case primaryLine < a.top:
		a.top = primaryLine
	case primaryLine >= a.top+textRows:
		a.top = primaryLine - textRows + 1
	}

	cursorX, cursorY := -1, -1
	for row := 0; row < textRows; row++ {
		line := a.top + row
		if line >= int(snap.LineCount()) {
			break
		}
		off := snap.LineStartOffset(uint32(line))
		x := 0
		g := uniseg.NewGraphemes(snap.LineText(uint32(line)))
		for g.Next() {
			style := styleText
			if heads[off] {
				style = styleCursor
				if off == cursors[0] {
					cursorX, cursorY = x, row
				}
			}
			if g.Str() == "\t" {
				w := tabWidth - x%tabWidth
				for i := 0; i < w; i++ {
					a.screen.SetContent(x+i, row, ' ', nil, style)
				}
				x += w
			} else {
				runes := g.Runes()
				a.screen.SetContent(x, row, runes[0], runes[1:], style)
				x += max(g.Width(), 1)
			}
			off += buffer.ByteOffset(len(g.Str()))
		}
		if heads[off] {
			a.screen.SetContent(x, row, ' ', nil, styleCursor)
			if off == cursors[0] {
				cursorX, cursorY = x, row
			}
		}
	}

	a.drawStatus(width, height-1, len(cursors))

	cs := tcell.CursorStyleSteadyBlock
	if a.engine.Mode().CursorStyle() == mode.CursorBar {
		cs = tcell.CursorStyleSteadyBar
	}
	a.screen.SetCursorStyle(cs)
	if cursorY >= 0 {
		a.screen.ShowCursor(cursorX, cursorY)
	} else {
		a.screen.HideCursor()
	}
	a.screen.Show()
}

func (a *App) drawStatus(width, row, cursors int) {
	for x := 0; x < width; x++ {
		a.screen.SetContent(x, row, ' ', nil, styleStatus)
	}
	reg, _ := a.engine.Registers().Get(a.engine.DefaultRegister())
	status := fmt.Sprintf("%-12s %d cursor(s)  %q  %s", a.engine.Mode().DisplayName(), cursors, reg.Text, a.pending)
	x := drawString(a.screen, 0, row, status, styleStatus)
	if a.message != "" {
		style := styleStatus
		if a.isError {
			style = styleError
		}
		drawString(a.screen, max(x+2, width-uniseg.StringWidth(a.message)), row, a.message, style)
	}
}

// drawString draws s at (x, y) and returns the column after it.
func drawString(s tcell.Screen, x, y int, str string, style tcell.Style) int {
	g := uniseg.NewGraphemes(str)
	for g.Next() {
		runes := g.Runes()
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += max(g.Width(), 1)
	}
	return x
}
