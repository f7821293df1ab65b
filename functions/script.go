package functions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/contentmigrate/pageheader/errors"
	"github.com/contentmigrate/pageheader/logging"
	"github.com/dop251/goja"
)

const (
	ErrScriptLoad    = errors.Error("failed to load script")
	ErrScriptFailed  = errors.Error("script function failed")
	ErrScriptTimeout = errors.Error("script function timed out")
)

// DefaultScriptTimeout bounds a single script function call.
const DefaultScriptTimeout = 5 * time.Second

// ScriptRuntime hosts user-defined functions written in JavaScript. Every
// top-level function declared by a loaded script can be called from a field
// expression. Calls are serialized since a goja runtime is single threaded.
type ScriptRuntime struct {
	mu      sync.Mutex
	vm      *goja.Runtime
	timeout time.Duration
	logger  logging.Logger
}

// NewScriptRuntime creates an empty runtime. A zero timeout selects
// DefaultScriptTimeout.
func NewScriptRuntime(timeout time.Duration, logger logging.Logger) (*ScriptRuntime, error) {
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	if logger == nil {
		logger = logging.Discard
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.UncapFieldNameMapper())

	rt := &ScriptRuntime{
		vm:      vm,
		timeout: timeout,
		logger:  logger,
	}
	if err := rt.setupConsole(); err != nil {
		return nil, fmt.Errorf("setting up console: %w", err)
	}

	return rt, nil
}

func (rt *ScriptRuntime) setupConsole() error {
	console := rt.vm.NewObject()

	if err := console.Set("log", func(call goja.FunctionCall) goja.Value {
		rt.logger.Info(logging.CategoryFunctions, formatArgs(call.Arguments))
		return goja.Undefined()
	}); err != nil {
		return err
	}

	if err := console.Set("warn", func(call goja.FunctionCall) goja.Value {
		rt.logger.Warn(logging.CategoryFunctions, formatArgs(call.Arguments))
		return goja.Undefined()
	}); err != nil {
		return err
	}

	if err := console.Set("error", func(call goja.FunctionCall) goja.Value {
		rt.logger.Error(logging.CategoryFunctions, formatArgs(call.Arguments), nil)
		return goja.Undefined()
	}); err != nil {
		return err
	}

	return rt.vm.Set("console", console)
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}

// Load runs source so the functions it declares become callable.
func (rt *ScriptRuntime) Load(name, source string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if _, err := rt.vm.RunScript(name, source); err != nil {
		return ErrScriptLoad.Wrapf("%s: %v", name, err)
	}
	return nil
}

// LoadFile reads and loads a script from disk.
func (rt *ScriptRuntime) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ErrScriptLoad.Wrap(err)
	}
	return rt.Load(filepath.Base(path), string(data))
}

// Has reports whether name is a loaded script function.
func (rt *ScriptRuntime) Has(name string) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	_, ok := goja.AssertFunction(rt.vm.Get(name))
	return ok
}

// Invocation describes the field a function is evaluated for. Scripts see it
// as `this`.
type Invocation struct {
	FieldName string
	FieldType string
}

// Call invokes the script function name with string arguments. Undefined and
// null results become the empty string. Exceptions and interrupts, whether
// from the runtime timeout or ctx, are returned as errors.
func (rt *ScriptRuntime) Call(ctx context.Context, name string, args []string, inv Invocation) (string, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	fn, ok := goja.AssertFunction(rt.vm.Get(name))
	if !ok {
		return "", ErrScriptFailed.Wrapf("%s is not a function", name)
	}

	if err := ctx.Err(); err != nil {
		return "", ErrScriptFailed.Wrapf("%s: %v", name, err)
	}

	rt.vm.ClearInterrupt()
	timer := time.AfterFunc(rt.timeout, func() {
		rt.vm.Interrupt(ErrScriptTimeout)
	})
	stop := context.AfterFunc(ctx, func() {
		rt.vm.Interrupt(ctx.Err())
	})
	defer func() {
		timer.Stop()
		stop()
		rt.vm.ClearInterrupt()
	}()

	jsArgs := make([]goja.Value, len(args))
	for i, a := range args {
		jsArgs[i] = rt.vm.ToValue(a)
	}

	result, err := fn(rt.vm.ToValue(inv), jsArgs...)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if v, ok := interrupted.Value().(error); ok && errors.Is(v, ErrScriptTimeout) {
				return "", ErrScriptTimeout.Wrapf("%s after %s", name, rt.timeout)
			}
			return "", ErrScriptFailed.Wrapf("%s interrupted: %v", name, interrupted.Value())
		}
		return "", ErrScriptFailed.Wrapf("%s: %v", name, err)
	}

	if result == nil || goja.IsUndefined(result) || goja.IsNull(result) {
		return "", nil
	}
	return result.String(), nil
}
