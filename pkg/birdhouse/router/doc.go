// Package router turns page names into swapped page state.
//
// A Router owns one live page. Every call to Navigate resolves a page name to
// a document, fetches and parses it, and swaps the page's stylesheets,
// content and behavior modules for the document's. Navigations are
// serialized through a FIFO lock and superseded through a debounce: when a
// newer call arrives, older attempts that have not yet reached the commit
// report status 0 and leave the page untouched.
//
// # Basic Usage
//
//	base, _ := url.Parse("http://localhost:5173/")
//
//	modules := module.NewRegistry().
//	    Register("/js/page/games.mjs", func() module.Exports {
//	        return module.Exports{
//	            Run:  func(ctx context.Context) error { return wireGames(ctx) },
//	            Free: func(ctx context.Context) error { return unwireGames(ctx) },
//	        }
//	    })
//
//	r, err := router.New(router.Options{
//	    Base:     base,
//	    Importer: modules,
//	})
//	if err != nil {
//	    return err
//	}
//
//	status, err := r.Navigate(ctx, "games", &router.NavInit{
//	    Params: []router.Param{{Key: "date", Value: "20250719"}},
//	})
//	switch {
//	case err != nil:
//	    // Cross-origin route, unexpected status or missing not-found page
//	case status == 0:
//	    // Superseded or cancelled before anything changed
//	default:
//	    // Committed
//	}
//
// # Page Names
//
// An empty name means "landing", which resolves by role: public visitors get
// the informational page and players or staff get the schedule. Any other
// name goes through the route template. A leading "_" escapes the landing
// policy, so "_landing" fetches the landing document itself. Documents that
// answer 404 are replaced by the not-found page.
//
// # Point of No Return
//
// Cancellation is checked only between pipeline steps. Once the new content
// has been taken out of the parsed document the attempt no longer looks at
// its token or its context: it swaps the stylesheets, container attributes
// and children, frees the previous module generation and runs the new one.
// Module failures after that point are logged and counted; they never fail
// the navigation.
//
// # Hash Changes
//
// BindHashChanges subscribes the router to an emitter of location fragments
// and navigates to each one like any other caller.
package router
