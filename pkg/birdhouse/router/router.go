package router

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/abort"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/constants"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/document"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/emitter"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/fetch"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/internal"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/lock"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/module"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/page"
)

// Param is one query parameter. Order is preserved in the resulting URL.
type Param struct {
	Key   string
	Value string
}

// NavInit carries the optional parts of a navigation request.
type NavInit struct {
	// Params replace the query of the resolved document URL.
	// A nil NavInit or empty Params clears the query.
	Params []Param
}

// Navigation describes a committed navigation. It is emitted on the
// Navigated stream after the page is fully swapped.
type Navigation struct {
	Page   string
	URL    *url.URL
	Status int
}

// Options configures a Router.
type Options struct {
	Base      *url.URL              // Address of the application shell (required)
	Page      *page.Page            // Live document (default: page.New())
	Fetcher   fetch.Fetcher         // Document fetcher (default: fetch.New with default options)
	Importer  module.Importer       // Module importer (default: an empty module.Registry)
	History   HistoryWriter         // Address recorder (default: NewHistory())
	Role      func() constants.Role // Role source (default: process-wide role)
	Routes    Routes                // Route table (zero fields use DefaultRoutes)
	Lifecycle *Lifecycle            // Style and module owner (default: NewLifecycle)
	Logger    *slog.Logger          // Logger (default: package logger)
}

// Router is the navigation controller. Navigate may be called from any
// number of goroutines; only one attempt at a time runs its pipeline and only
// the newest queued attempt gets to start it.
type Router struct {
	base      *url.URL
	page      *page.Page
	fetcher   fetch.Fetcher
	importer  module.Importer
	history   HistoryWriter
	resolver  Resolver
	lifecycle *Lifecycle
	logger    *slog.Logger

	mutex     *lock.Mutex
	debounce  *abort.Debounce
	navigated *emitter.Emitter[Navigation]
}

// New creates a Router.
func New(opts Options) (*Router, error) {
	if opts.Base == nil {
		return nil, errors.New("router: base URL is required")
	}
	if !opts.Base.IsAbs() {
		return nil, fmt.Errorf("router: base URL %q is not absolute", opts.Base)
	}

	r := &Router{
		base:      opts.Base,
		page:      opts.Page,
		fetcher:   opts.Fetcher,
		importer:  opts.Importer,
		history:   opts.History,
		lifecycle: opts.Lifecycle,
		logger:    opts.Logger,
		resolver: Resolver{
			Routes: opts.Routes.withDefaults(),
			Role:   opts.Role,
		},
		mutex:     lock.New(),
		debounce:  &abort.Debounce{},
		navigated: emitter.New[Navigation](),
	}

	if r.logger == nil {
		r.logger = internal.GetLogger()
	}
	if r.page == nil {
		r.page = page.New()
	}
	if r.fetcher == nil {
		r.fetcher = fetch.New(fetch.Options{})
	}
	if r.importer == nil {
		r.importer = module.NewRegistry()
	}
	if r.history == nil {
		r.history = NewHistory()
	}
	if r.lifecycle == nil {
		r.lifecycle = NewLifecycle(r.logger)
	}
	if r.resolver.Role == nil {
		r.resolver.Role = internal.GetRole
	}

	return r, nil
}

// Navigate swaps the page for pageName and returns the document status.
//
// It returns (0, nil) when the attempt was superseded by a newer call, or
// cancelled through ctx, before the page was touched. Once the new content
// has been extracted the attempt always completes, whatever happens to ctx.
// Fatal errors (cross-origin routes, unexpected statuses, a missing not-found
// page) are returned with status 0. Module failures are logged, never
// returned.
func (r *Router) Navigate(ctx context.Context, pageName string, init *NavInit) (int, error) {
	start := time.Now()
	attempt := uuid.NewString()
	logger := r.logger.With("attempt", attempt, "page", pageName)

	ctx, span := internal.Tracer().Start(ctx, "router.Navigate", trace.WithAttributes(
		attribute.String("page", pageName),
		attribute.String("attempt", attempt),
	))
	defer span.End()

	tok := r.debounce.Next()
	stop := tok.Bind(ctx)
	defer stop()

	nav, err := r.attempt(ctx, tok, logger, pageName, init)

	switch {
	case err == nil:
		span.SetAttributes(attribute.Int("status", nav.Status))
		internal.ObserveNavigation(internal.OutcomeCommitted, time.Since(start))
		// The lock is released by now, so subscribers may navigate again.
		r.navigated.Emit(nav)
		return nav.Status, nil
	case IsCancelled(err):
		logger.Debug("Navigation cancelled")
		span.SetAttributes(attribute.Int("status", 0))
		internal.ObserveNavigation(internal.OutcomeCancelled, time.Since(start))
		return 0, nil
	default:
		logger.Error("Navigation failed", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		internal.ObserveNavigation(internal.OutcomeFailed, time.Since(start))
		return 0, err
	}
}

// attempt runs one navigation under the router lock.
func (r *Router) attempt(ctx context.Context, tok *abort.Token, logger *slog.Logger, pageName string, init *NavInit) (Navigation, error) {
	if err := r.mutex.Acquire(tok); err != nil {
		return Navigation{}, err
	}
	defer r.mutex.Release()

	nav, err := r.run(ctx, tok, logger, pageName, init)
	if err != nil {
		// A superseded attempt leaves the marker to the attempt that
		// replaced it.
		if !IsCancelled(err) || r.debounce.IsCurrent(tok) {
			r.page.SetLoading(false)
		}
		return Navigation{}, err
	}

	r.page.SetLoading(false)
	r.page.SetPage(nav.Page)
	logger.Info("Navigated", "url", nav.URL.String(), "status", nav.Status)

	return nav, nil
}

// run is the fetch, parse and commit pipeline. Every return before the
// commit leaves the visible page untouched.
func (r *Router) run(ctx context.Context, tok *abort.Token, logger *slog.Logger, pageName string, init *NavInit) (Navigation, error) {
	r.page.SetLoading(true)

	name := r.resolver.Normalize(pageName)
	target, err := r.resolver.URL(r.base, pageName)
	if err != nil {
		return Navigation{}, err
	}
	target.RawQuery = encodeQuery(init)
	target.Fragment = ""

	r.history.Replace(target.String(), r.base.ResolveReference(&url.URL{
		Path:     "./",
		RawQuery: target.RawQuery,
		Fragment: name,
	}))

	resp, err := r.fetchDocument(tok, logger, target)
	if err != nil {
		return Navigation{}, err
	}

	doc, err := document.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return Navigation{}, fmt.Errorf("router: parse %s: %w", resp.URL, err)
	}
	if err := tok.Err(); err != nil {
		return Navigation{}, err
	}

	if removed := doc.StripRoles(r.resolver.role()); removed > 0 {
		logger.Debug("Removed role-restricted elements", "count", removed)
	}
	if err := tok.Err(); err != nil {
		return Navigation{}, err
	}

	srcs := doc.ModuleScripts()
	if err := tok.Err(); err != nil {
		return Navigation{}, err
	}

	// Point of no return. The token is not consulted past this line and
	// caller cancellation no longer reaches the commit.
	commitCtx := context.WithoutCancel(ctx)

	pending := make([]*pendingImport, len(srcs))
	for i, src := range srcs {
		pending[i] = startImport(commitCtx, r.importer, r.base, src)
	}

	styles := doc.Stylesheets()
	attrs := doc.BodyAttributes()
	content := doc.TakeContent()

	r.lifecycle.ReplaceStyles(r.page, styles)
	r.page.ReplaceAttributes(attrs)
	r.page.ReplaceChildren(content)

	r.lifecycle.Retire(commitCtx)
	r.lifecycle.Activate(commitCtx, pending)

	return Navigation{Page: name, URL: resp.URL, Status: resp.Status}, nil
}

// fetchDocument fetches target and follows 404s to the not-found page. The
// loop ends with an error when the not-found page itself answers 404.
func (r *Router) fetchDocument(tok *abort.Token, logger *slog.Logger, target *url.URL) (*fetch.Response, error) {
	u := target
	var trigger *url.URL

	for {
		if trigger != nil && u.String() == trigger.String() {
			return nil, fmt.Errorf("%w: %s", ErrMissingNotFoundRoute, u)
		}
		if !fetch.SameOrigin(u, r.base) {
			return nil, &CrossOriginError{URL: u, Origin: fetch.Origin(r.base)}
		}

		logger.Debug("Fetching document", "url", u.String())
		resp, err := r.fetcher.Fetch(tok.Context(), u)
		if abortErr := tok.Err(); abortErr != nil {
			return nil, abortErr
		}
		if err != nil {
			return nil, fmt.Errorf("router: fetch %s: %w", u, err)
		}
		if resp.URL == nil {
			resp.URL = u
		}

		switch resp.Status {
		case http.StatusOK:
			return resp, nil
		case http.StatusNotFound:
			logger.Debug("Document not found, falling back", "url", u.String())
			trigger = u
			u, err = r.resolver.URL(r.base, r.resolver.Routes.NotFound)
			if err != nil {
				return nil, err
			}
		default:
			return nil, &ResponseError{Status: resp.Status, URL: u, Response: resp}
		}
	}
}

// Navigated returns the stream of committed navigations. Subscribers are
// called on the navigating goroutine after the router lock is released and
// may call Navigate themselves.
func (r *Router) Navigated() *emitter.Emitter[Navigation] {
	return r.navigated
}

// Lifecycle returns the owner of the active styles and modules.
func (r *Router) Lifecycle() *Lifecycle {
	return r.lifecycle
}

// Page returns the live document.
func (r *Router) Page() *page.Page {
	return r.page
}

// Base returns the shell address routes are resolved against.
func (r *Router) Base() *url.URL {
	return r.base
}

func encodeQuery(init *NavInit) string {
	if init == nil || len(init.Params) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range init.Params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
