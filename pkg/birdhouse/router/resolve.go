package router

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/constants"
)

// Routes holds the navigation policy: where the landing page goes for each
// kind of visitor, how other page names map to documents, and which page
// name serves as the not-found fallback.
type Routes struct {
	PublicLanding string // Landing document for RoleNone
	MemberLanding string // Landing document for RolePlayer and RoleStaff
	Template      string // Document for any other name; "{name}" is replaced
	NotFound      string // Page name used when a document answers 404
}

// DefaultRoutes returns the stock route table.
func DefaultRoutes() Routes {
	return Routes{
		PublicLanding: constants.DefaultPublicLanding,
		MemberLanding: constants.DefaultMemberLanding,
		Template:      constants.DefaultRouteTemplate,
		NotFound:      constants.NotFoundPage,
	}
}

func (r Routes) withDefaults() Routes {
	def := DefaultRoutes()
	if r.PublicLanding == "" {
		r.PublicLanding = def.PublicLanding
	}
	if r.MemberLanding == "" {
		r.MemberLanding = def.MemberLanding
	}
	if r.Template == "" {
		r.Template = def.Template
	}
	if r.NotFound == "" {
		r.NotFound = def.NotFound
	}
	return r
}

// Resolver maps page names to document references. It performs no I/O and
// never rejects a name; unknown names simply produce a document that 404s.
type Resolver struct {
	Routes Routes
	Role   func() constants.Role
}

// Normalize applies the naming conventions: an empty name means the landing
// page and a single leading "_" is stripped.
func (r Resolver) Normalize(name string) string {
	if name == "" {
		return constants.LandingPage
	}
	return strings.TrimPrefix(name, constants.EscapePrefix)
}

// Route returns the relative document reference for an already normalized
// page name. "landing" is resolved by role; every other name goes through
// the template.
func (r Resolver) Route(name string) string {
	routes := r.Routes.withDefaults()
	if name == constants.LandingPage {
		switch r.role() {
		case constants.RoleNone:
			return routes.PublicLanding
		case constants.RolePlayer, constants.RoleStaff:
			return routes.MemberLanding
		}
	}
	return r.template(name)
}

// Resolve returns the document reference for a raw page name. A name carrying
// the escape prefix bypasses the landing policy, so "_landing" reaches the
// landing.html document rather than the role-based landing page.
func (r Resolver) Resolve(raw string) string {
	if strings.HasPrefix(raw, constants.EscapePrefix) {
		return r.template(r.Normalize(raw))
	}
	return r.Route(r.Normalize(raw))
}

// URL resolves the document for a raw page name against base.
func (r Resolver) URL(base *url.URL, raw string) (*url.URL, error) {
	ref, err := url.Parse(r.Resolve(raw))
	if err != nil {
		return nil, fmt.Errorf("router: route for %q: %w", raw, err)
	}
	return base.ResolveReference(ref), nil
}

func (r Resolver) template(name string) string {
	return strings.ReplaceAll(r.Routes.withDefaults().Template, "{name}", url.PathEscape(name))
}

func (r Resolver) role() constants.Role {
	if r.Role == nil {
		return constants.RoleNone
	}
	return r.Role()
}
