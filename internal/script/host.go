// Package script drives an engine session from Lua through a global vc
// table. Scripts run in a sandbox with only the base, table, string and
// math libraries.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimchange/internal/engine"
	"github.com/dshills/vimchange/internal/log"
)

// DefaultTimeout bounds a single Run.
const DefaultTimeout = 5 * time.Second

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("script host is closed")

// Host is a Lua state bound to one engine session.
//
// gopher-lua states are not goroutine-safe; Host serializes Run calls.
type Host struct {
	mu     sync.Mutex
	L      *lua.LState
	engine *engine.Engine

	out     io.Writer
	timeout time.Duration
	closed  bool
}

// Option configures a Host.
type Option func(*Host)

// WithOutput sends print output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		h.out = w
	}
}

// WithTimeout bounds each Run. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// NewHost creates a sandboxed Lua state with the vc module installed.
func NewHost(e *engine.Engine, opts ...Option) *Host {
	h := &Host{
		engine:  e,
		out:     os.Stdout,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(h.print))

	h.L = L
	h.installModule(L)
	return h
}

// openSafeLibraries opens only the libraries without file or process access.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// Run executes code. name labels errors and log lines.
func (h *Host) Run(ctx context.Context, name, code string) error {
	return h.run(ctx, name, func(L *lua.LState) error {
		fn, err := L.Load(strings.NewReader(code), name)
		if err != nil {
			return err
		}
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	})
}

// RunFile executes the Lua file at path.
func (h *Host) RunFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return h.Run(ctx, path, string(data))
}

func (h *Host) run(ctx context.Context, name string, fn func(L *lua.LState) error) (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	start := time.Now()
	top := h.L.GetTop()
	err = fn(h.L)
	h.L.SetTop(top)
	if err != nil {
		log.Warn(log.CatScript, "script failed", "name", name, "error", err)
		return fmt.Errorf("script %s: %w", name, err)
	}
	log.Debug(log.CatScript, "script finished", "name", name, "elapsed", time.Since(start))
	return nil
}

// Close releases the Lua state.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		h.L.Close()
	}
}

// print writes its arguments tab-separated, like the base print.
func (h *Host) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(h.out, strings.Join(parts, "\t"))
	return 0
}
