package module

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/dop251/goja"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/fetch"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/internal"
)

// ScriptImporter loads page modules written as CommonJS-style scripts:
//
//	exports.run = function () { console.log("games page ready"); };
//	exports.free = function () { console.log("bye"); };
//
// Each import gets its own goja runtime. A hook returning a rejected promise
// counts as a failure.
type ScriptImporter struct {
	Fetcher fetch.Fetcher
	Logger  *slog.Logger
}

// Import fetches src and evaluates it.
func (s *ScriptImporter) Import(ctx context.Context, src *url.URL) (Exports, error) {
	resp, err := s.Fetcher.Fetch(ctx, src)
	if err != nil {
		return Exports{}, err
	}
	switch resp.Status {
	case http.StatusOK:
	case http.StatusNotFound:
		return Exports{}, fmt.Errorf("%w: %s", ErrNotFound, src)
	default:
		return Exports{}, fmt.Errorf("module %s: unexpected status %d", src, resp.Status)
	}

	return Evaluate(src.String(), resp.Text(), s.logger())
}

func (s *ScriptImporter) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return internal.GetLogger()
}

// scriptModule serializes access to a runtime, which is not safe for
// concurrent use.
type scriptModule struct {
	mu sync.Mutex
	vm *goja.Runtime
}

// Evaluate runs a module script named name and returns its exported hooks.
// A nil logger uses the package logger for console output.
func Evaluate(name, source string, logger *slog.Logger) (Exports, error) {
	if logger == nil {
		logger = internal.GetLogger()
	}

	vm := goja.New()
	exportsObj := vm.NewObject()
	moduleObj := vm.NewObject()
	if err := moduleObj.Set("exports", exportsObj); err != nil {
		return Exports{}, err
	}
	if err := vm.Set("module", moduleObj); err != nil {
		return Exports{}, err
	}
	if err := vm.Set("exports", exportsObj); err != nil {
		return Exports{}, err
	}
	console := map[string]interface{}{
		"log": func(args ...interface{}) {
			logger.Info("module console", "module", name, "args", args)
		},
		"error": func(args ...interface{}) {
			logger.Error("module console", "module", name, "args", args)
		},
	}
	if err := vm.Set("console", console); err != nil {
		return Exports{}, err
	}

	if _, err := vm.RunScript(name, source); err != nil {
		return Exports{}, fmt.Errorf("module %s: evaluate: %w", name, err)
	}

	exported := moduleObj.Get("exports")
	if exported == nil || goja.IsUndefined(exported) || goja.IsNull(exported) {
		return Exports{}, fmt.Errorf("module %s: exports is empty", name)
	}
	obj := exported.ToObject(vm)

	m := &scriptModule{vm: vm}
	var exp Exports
	if fn, ok := goja.AssertFunction(obj.Get("run")); ok {
		exp.Run = m.hook(fn)
	}
	if fn, ok := goja.AssertFunction(obj.Get("free")); ok {
		exp.Free = m.hook(fn)
	}
	return exp, nil
}

func (m *scriptModule) hook(fn goja.Callable) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		stop := context.AfterFunc(ctx, func() { m.vm.Interrupt(ctx.Err()) })
		defer func() {
			stop()
			m.vm.ClearInterrupt()
		}()

		v, err := fn(goja.Undefined())
		if err != nil {
			return err
		}
		if v == nil {
			return nil
		}
		if p, ok := v.Export().(*goja.Promise); ok && p.State() == goja.PromiseStateRejected {
			return fmt.Errorf("promise rejected: %v", p.Result())
		}
		return nil
	}
}
