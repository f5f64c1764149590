// Package page holds the live document the router renders into: a head that
// receives stylesheet links, a content container whose attributes and
// children are swapped on every navigation, and the body markers that expose
// loading state and the current page.
package page

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/constants"
)

// Body marker attributes.
const (
	LoadingAttribute = "data-loading"
	PageAttribute    = "data-page"
)

const defaultShell = `<!DOCTYPE html><html><head></head><body><main id="` + constants.ContentID + `"></main></body></html>`

// Page is the live document. All methods are safe for concurrent use.
type Page struct {
	mu      sync.RWMutex
	root    *html.Node
	head    *html.Node
	body    *html.Node
	content *html.Node
}

// New returns a page built from a minimal shell with an empty content
// container.
func New() *Page {
	p, err := Parse(strings.NewReader(defaultShell))
	if err != nil {
		panic(err)
	}
	return p
}

// Parse builds a page from an application shell document. The shell must
// contain an element with the content container id.
func Parse(r io.Reader) (*Page, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("page: parse shell: %w", err)
	}

	p := &Page{
		root:    root,
		head:    htmlquery.FindOne(root, "//head"),
		body:    htmlquery.FindOne(root, "//body"),
		content: htmlquery.FindOne(root, "//*[@id='"+constants.ContentID+"']"),
	}
	if p.content == nil {
		return nil, fmt.Errorf("page: shell has no #%s element", constants.ContentID)
	}
	return p, nil
}

// AppendHead attaches n as the last child of the head.
func (p *Page) AppendHead(n *html.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	p.head.AppendChild(n)
}

// RemoveHead detaches n if it is a child of the head.
func (p *Page) RemoveHead(n *html.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n.Parent == p.head {
		p.head.RemoveChild(n)
	}
}

// ReplaceAttributes clears the content container's attributes and copies
// attrs onto it. The container keeps its id whatever attrs contains.
func (p *Page) ReplaceAttributes(attrs []html.Attribute) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := make([]html.Attribute, 0, len(attrs)+1)
	for _, a := range attrs {
		if a.Namespace == "" && a.Key == "id" {
			continue
		}
		next = append(next, a)
	}
	next = append(next, html.Attribute{Key: "id", Val: constants.ContentID})
	p.content.Attr = next
}

// ReplaceChildren swaps the content container's children for nodes in one
// step.
func (p *Page) ReplaceChildren(nodes []*html.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.content.FirstChild != nil {
		p.content.RemoveChild(p.content.FirstChild)
	}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		p.content.AppendChild(n)
	}
}

// SetLoading toggles the loading marker on the body.
func (p *Page) SetLoading(loading bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if loading {
		setAttr(p.body, LoadingAttribute, "")
	} else {
		removeAttr(p.body, LoadingAttribute)
	}
}

// SetPage records the committed page name on the body.
func (p *Page) SetPage(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	setAttr(p.body, PageAttribute, name)
}

// Loading reports whether the loading marker is present.
func (p *Page) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return htmlquery.ExistsAttr(p.body, LoadingAttribute)
}

// CurrentPage returns the committed page marker.
func (p *Page) CurrentPage() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return htmlquery.SelectAttr(p.body, PageAttribute)
}

// Attributes returns a copy of the content container's attributes.
func (p *Page) Attributes() []html.Attribute {
	p.mu.RLock()
	defer p.mu.RUnlock()

	attrs := make([]html.Attribute, len(p.content.Attr))
	copy(attrs, p.content.Attr)
	return attrs
}

// HeadLinks returns the href of every stylesheet link in the head.
func (p *Page) HeadLinks() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var hrefs []string
	for _, n := range htmlquery.Find(p.head, "./link[@rel='stylesheet']") {
		hrefs = append(hrefs, htmlquery.SelectAttr(n, "href"))
	}
	return hrefs
}

// ContentHTML renders the children of the content container.
func (p *Page) ContentHTML() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return htmlquery.OutputHTML(p.content, false)
}

// HTML renders the whole document.
func (p *Page) HTML() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var sb strings.Builder
	if err := html.Render(&sb, p.root); err != nil {
		return ""
	}
	return sb.String()
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}
