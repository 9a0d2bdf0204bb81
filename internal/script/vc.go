package script

import (
	"errors"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimchange/internal/descriptor"
	"github.com/dshills/vimchange/internal/engine"
	"github.com/dshills/vimchange/internal/engine/buffer"
	"github.com/dshills/vimchange/internal/operator"
	"github.com/dshills/vimchange/internal/register"
)

// installModule installs the global vc table.
//
// Offsets exchanged with Lua are 0-based byte offsets.
func (h *Host) installModule(L *lua.LState) {
	mod := L.NewTable()

	// Session state
	L.SetField(mod, "text", L.NewFunction(h.text))
	L.SetField(mod, "cursors", L.NewFunction(h.cursors))
	L.SetField(mod, "set_cursors", L.NewFunction(h.setCursors))
	L.SetField(mod, "mode", L.NewFunction(h.mode))
	L.SetField(mod, "register", L.NewFunction(h.registerText))

	// Editing
	L.SetField(mod, "change", L.NewFunction(h.change))
	L.SetField(mod, "change_object", L.NewFunction(h.changeObject))
	L.SetField(mod, "insert", L.NewFunction(h.insert))
	L.SetField(mod, "escape", L.NewFunction(h.escape))
	L.SetField(mod, "group", L.NewFunction(h.group))
	L.SetField(mod, "undo", L.NewFunction(h.undo))
	L.SetField(mod, "redo", L.NewFunction(h.redo))

	L.SetGlobal("vc", mod)
}

// text() -> string
func (h *Host) text(L *lua.LState) int {
	L.Push(lua.LString(h.engine.Text()))
	return 1
}

// cursors() -> {offsets}
func (h *Host) cursors(L *lua.LState) int {
	tbl := L.NewTable()
	for i, off := range h.engine.Cursors() {
		tbl.RawSetInt(i+1, lua.LNumber(off))
	}
	L.Push(tbl)
	return 1
}

// set_cursors(offset, ...) or set_cursors({offsets})
func (h *Host) setCursors(L *lua.LState) int {
	var offsets []buffer.ByteOffset
	if tbl, ok := L.Get(1).(*lua.LTable); ok {
		for i := 1; i <= tbl.Len(); i++ {
			n, ok := tbl.RawGetInt(i).(lua.LNumber)
			if !ok {
				L.ArgError(1, "cursor offsets must be numbers")
				return 0
			}
			offsets = append(offsets, buffer.ByteOffset(n))
		}
	} else {
		for i := 1; i <= L.GetTop(); i++ {
			offsets = append(offsets, buffer.ByteOffset(L.CheckInt64(i)))
		}
	}
	if err := h.engine.SetCursors(offsets...); err != nil {
		L.RaiseError("set_cursors: %v", err)
	}
	return 0
}

// mode() -> "normal" | "insert"
func (h *Host) mode(L *lua.LState) int {
	L.Push(lua.LString(h.engine.Mode().String()))
	return 1
}

// register([name]) -> text, linewise
// Returns nil when the register is empty.
func (h *Host) registerText(L *lua.LState) int {
	name := h.engine.DefaultRegister()
	if L.GetTop() >= 1 {
		name = checkRegister(L, 1)
	}
	c, ok := h.engine.Registers().Get(name)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(c.Text))
	L.Push(lua.LBool(c.Linewise))
	return 2
}

// change(name [, count [, register]]) -> success, mode
// name is a motion or text object ("w", "2e", "cc", "iw", "a(").
func (h *Host) change(L *lua.LState) int {
	d, err := descriptor.Parse(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	count := L.OptInt(2, d.Count)
	opts := h.registerOption(L, 3)

	var res operator.Result
	if d.Kind == descriptor.KindObject {
		res = operator.ChangeObject(h.engine, d.Object, d.Around, opts...)
	} else {
		res = operator.ChangeMotion(h.engine, d.Motion, count, opts...)
	}
	return pushResult(L, res)
}

// change_object(name [, register]) -> success, mode
func (h *Host) changeObject(L *lua.LState) int {
	obj, around, err := descriptor.ParseObject(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	res := operator.ChangeObject(h.engine, obj, around, h.registerOption(L, 2)...)
	return pushResult(L, res)
}

// insert(text)
func (h *Host) insert(L *lua.LState) int {
	if err := h.engine.Insert(L.CheckString(1)); err != nil {
		L.RaiseError("insert: %v", err)
	}
	return 0
}

// escape()
func (h *Host) escape(L *lua.LState) int {
	h.engine.Escape()
	return 0
}

// group(name, fn)
// Every change fn makes undoes as one step.
func (h *Host) group(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	err := h.engine.Group(name, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
	if err != nil {
		L.RaiseError("group %s: %v", name, err)
	}
	return 0
}

// undo() -> bool
func (h *Host) undo(L *lua.LState) int {
	return h.pushStep(L, h.engine.Undo())
}

// redo() -> bool
func (h *Host) redo(L *lua.LState) int {
	return h.pushStep(L, h.engine.Redo())
}

func (h *Host) pushStep(L *lua.LState, err error) int {
	switch {
	case err == nil:
		L.Push(lua.LTrue)
	case errors.Is(err, engine.ErrNothingToUndo), errors.Is(err, engine.ErrNothingToRedo):
		L.Push(lua.LFalse)
	default:
		L.RaiseError("%v", err)
		return 0
	}
	return 1
}

func (h *Host) registerOption(L *lua.LState, idx int) []operator.Option {
	if L.GetTop() < idx || L.Get(idx) == lua.LNil {
		return nil
	}
	return []operator.Option{operator.WithRegister(checkRegister(L, idx))}
}

// checkRegister reads a one-character register name.
func checkRegister(L *lua.LState, idx int) rune {
	s := L.CheckString(idx)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || !register.IsValid(r) {
		L.ArgError(idx, "invalid register name "+s)
		return 0
	}
	return r
}

func pushResult(L *lua.LState, res operator.Result) int {
	if res.Err != nil {
		L.RaiseError("%v", res.Err)
		return 0
	}
	L.Push(lua.LBool(res.Success))
	L.Push(lua.LString(res.Mode.String()))
	return 2
}
