package birdhouse

import (
	"context"
	"log/slog"
	"sync"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/alert"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/emitter"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/fetch"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/internal"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/module"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/page"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/router"
)

// NavigatorOptions overrides the collaborators NewNavigator builds by
// default.
type NavigatorOptions struct {
	Fetcher fetch.Fetcher // Document and script fetcher (default: fetch.New with the configured timeout)
	Page    *page.Page    // Live document (default: page.New())
	Sink    alert.Sink    // Alert display (default: alert.LogSink)
	Logger  *slog.Logger  // Logger (default: package logger)
}

// Navigator is a Router wired to Go modules, script modules, an in-memory
// history, a hash-change source and localized alerts.
type Navigator struct {
	*router.Router

	Modules *module.Registry
	Hashes  *emitter.Emitter[string]
	History *router.History
	Alerts  *alert.Reporter

	mu    sync.Mutex
	bound bool
	sub   emitter.Subscription
}

// NewNavigator builds a Navigator from cfg. Register Go page modules on
// Modules before the first navigation; any module src not registered there is
// fetched and evaluated as a script.
func NewNavigator(cfg Config, opts NavigatorOptions) (*Navigator, error) {
	base, err := cfg.Base()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = internal.GetLogger()
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = fetch.New(fetch.Options{Timeout: cfg.FetchTimeout})
	}

	reporter, err := alert.NewReporter(cfg.Language, opts.Sink)
	if err != nil {
		return nil, NewConfigError("language", err)
	}

	n := &Navigator{
		Modules: module.NewRegistry(),
		Hashes:  emitter.New[string](),
		History: router.NewHistory(),
		Alerts:  reporter,
	}

	n.Router, err = router.New(router.Options{
		Base:    base,
		Page:    opts.Page,
		Fetcher: fetcher,
		Importer: module.Chain{
			n.Modules,
			&module.ScriptImporter{Fetcher: fetcher, Logger: logger},
		},
		History: n.History,
		Role:    internal.GetRole,
		Routes:  cfg.RouteTable(),
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	return n, nil
}

// Start listens for hash changes and performs the initial navigation to
// fragment, or to the landing page when fragment is empty. Errors from later
// hash-change navigations are reported through Alerts.
func (n *Navigator) Start(ctx context.Context, fragment string) (int, error) {
	n.mu.Lock()
	if !n.bound {
		n.sub = n.BindHashChanges(n.Hashes, func(err error) {
			n.Alerts.ReportBackground("hashchange", err)
		})
		n.bound = true
	}
	n.mu.Unlock()

	status, err := n.Navigate(ctx, trimHash(fragment), nil)
	if err != nil {
		n.Alerts.Report(err)
	}
	return status, err
}

// Stop detaches the hash-change listener. Start and Stop may be called from
// different goroutines.
func (n *Navigator) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.bound {
		n.Hashes.Detach(n.sub)
		n.bound = false
	}
}

// SetHash emits a hash change, as a browser would when the location fragment
// changes.
func (n *Navigator) SetHash(fragment string) {
	n.Hashes.Emit(trimHash(fragment))
}

func trimHash(fragment string) string {
	if len(fragment) > 0 && fragment[0] == '#' {
		return fragment[1:]
	}
	return fragment
}
