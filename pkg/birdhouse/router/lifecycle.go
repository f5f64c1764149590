package router

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"golang.org/x/net/html"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/internal"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/module"
)

// PageModule is an active behavior module. Free is never nil.
type PageModule struct {
	Src  string
	Run  func(ctx context.Context) error
	Free func(ctx context.Context) error
}

// Head receives stylesheet links.
type Head interface {
	AppendHead(n *html.Node)
	RemoveHead(n *html.Node)
}

// Lifecycle owns the stylesheets and modules of the committed page. Only the
// committing phase of a navigation holding the router lock mutates it; the
// snapshot accessors may be called from anywhere.
type Lifecycle struct {
	mu      sync.RWMutex
	styles  []*html.Node
	modules []PageModule
	logger  *slog.Logger
}

// NewLifecycle returns an empty Lifecycle. A nil logger uses the package
// logger.
func NewLifecycle(logger *slog.Logger) *Lifecycle {
	if logger == nil {
		logger = internal.GetLogger()
	}
	return &Lifecycle{logger: logger}
}

// ReplaceStyles removes every applied stylesheet from head, then appends
// styles in order and records them as applied.
func (l *Lifecycle) ReplaceStyles(head Head, styles []*html.Node) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.styles {
		head.RemoveHead(s)
	}
	l.styles = l.styles[:0]

	for _, s := range styles {
		head.AppendHead(s)
		l.styles = append(l.styles, s)
	}
}

// Retire frees the active module generation in registration order. Every
// Free runs; failures are logged and returned, never propagated further.
func (l *Lifecycle) Retire(ctx context.Context) []error {
	l.mu.Lock()
	retiring := l.modules
	l.modules = nil
	l.mu.Unlock()

	tasks := make([]func(context.Context) error, len(retiring))
	for i, m := range retiring {
		tasks[i] = m.Free
	}

	var faults []error
	for i, err := range settle(ctx, tasks) {
		if err != nil {
			faults = append(faults, l.fault(retiring[i].Src, PhaseFree, err))
		}
	}
	return faults
}

// Activate waits for the pending imports, registers every module that
// exports Run as the new generation, and runs them in document order. Load
// and run failures are logged and returned; they never stop sibling modules.
// A Run that starts long-lived work should do so on its own goroutine.
func (l *Lifecycle) Activate(ctx context.Context, pending []*pendingImport) []error {
	var (
		faults []error
		fresh  []PageModule
	)
	for _, p := range pending {
		exp, err := p.wait()
		if err != nil {
			faults = append(faults, l.fault(p.src, PhaseLoad, err))
			continue
		}
		if exp.Run == nil {
			continue
		}
		free := exp.Free
		if free == nil {
			free = noop
		}
		fresh = append(fresh, PageModule{Src: p.src, Run: exp.Run, Free: free})
	}

	l.mu.Lock()
	l.modules = append(l.modules, fresh...)
	l.mu.Unlock()

	tasks := make([]func(context.Context) error, len(fresh))
	for i, m := range fresh {
		tasks[i] = m.Run
	}
	for i, err := range settle(ctx, tasks) {
		if err != nil {
			faults = append(faults, l.fault(fresh[i].Src, PhaseRun, err))
		}
	}
	return faults
}

// Styles returns the applied stylesheet links.
func (l *Lifecycle) Styles() []*html.Node {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*html.Node(nil), l.styles...)
}

// Modules returns the active module generation.
func (l *Lifecycle) Modules() []PageModule {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]PageModule(nil), l.modules...)
}

func (l *Lifecycle) fault(src, phase string, err error) error {
	modErr := &ModuleError{Src: src, Phase: phase, Err: err}
	internal.CountModuleFault(phase)

	switch phase {
	case PhaseLoad:
		l.logger.Error("Failed to load module", "src", src, "error", err)
	case PhaseFree:
		l.logger.Error("Failed to free a loaded module", "src", src, "error", err)
	default:
		l.logger.Error("Failed to run a loaded module", "src", src, "error", err)
	}
	return modErr
}

func noop(context.Context) error { return nil }

// pendingImport is a module import started before the point of no return
// and collected once the page is committed.
type pendingImport struct {
	src  string
	done chan struct{}
	exp  module.Exports
	err  error
}

func startImport(ctx context.Context, imp module.Importer, base *url.URL, src string) *pendingImport {
	p := &pendingImport{src: src, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		defer func() {
			if r := recover(); r != nil {
				p.err = errPanic(r)
			}
		}()

		if src == "" {
			p.err = errInlineModule
			return
		}
		u, err := base.Parse(src)
		if err != nil {
			p.err = err
			return
		}
		p.exp, p.err = imp.Import(ctx, u)
	}()

	return p
}

func (p *pendingImport) wait() (module.Exports, error) {
	<-p.done
	return p.exp, p.err
}
