package classify

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// ErrNoClassifyFunc is returned when a classifier script does not define a
// global classify function.
var ErrNoClassifyFunc = errors.New("classifier script does not define classify(attrs, text)")

// LuaClassifier runs a user-supplied Lua script as a language classifier.
// The script must define a global function classify(attrs, text) receiving
// the node's attribute table and text content and returning a language tag
// string (or nil for unknown).
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes calls so
// the classifier can be shared across bindings.
type LuaClassifier struct {
	mu    sync.Mutex
	state *lua.LState
	fn    lua.LValue
}

// NewLuaClassifier compiles and runs script, capturing its classify
// function.
func NewLuaClassifier(script string) (*LuaClassifier, error) {
	L := lua.NewState()
	if err := L.DoString(script); err != nil {
		L.Close()
		return nil, fmt.Errorf("classifier script: %w", err)
	}
	return wrapState(L)
}

// NewLuaClassifierFile loads the classifier script from a file.
func NewLuaClassifierFile(path string) (*LuaClassifier, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("classifier script %s: %w", path, err)
	}
	return wrapState(L)
}

func wrapState(L *lua.LState) (*LuaClassifier, error) {
	fn := L.GetGlobal("classify")
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, ErrNoClassifyFunc
	}
	return &LuaClassifier{state: L, fn: fn}, nil
}

// Close releases the Lua state. The classifier must not be used afterwards.
func (c *LuaClassifier) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Close()
}

// Classify invokes the script's classify function.
func (c *LuaClassifier) Classify(attrs map[string]string, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tbl := c.state.NewTable()
	for k, v := range attrs {
		tbl.RawSetString(k, lua.LString(v))
	}

	err := c.state.CallByParam(lua.P{
		Fn:      c.fn,
		NRet:    1,
		Protect: true,
	}, tbl, lua.LString(text))
	if err != nil {
		return "", fmt.Errorf("classify call: %w", err)
	}

	ret := c.state.Get(-1)
	c.state.Pop(1)
	if s, ok := ret.(lua.LString); ok {
		return normalizeTag(string(s)), nil
	}
	return "", nil
}

// Func adapts the classifier to the Func signature, mapping script errors
// to the unknown tag.
func (c *LuaClassifier) Func() Func {
	return func(attrs map[string]string, text string) string {
		tag, err := c.Classify(attrs, text)
		if err != nil {
			return ""
		}
		return tag
	}
}
