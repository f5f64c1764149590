// Package document parses fetched page documents and extracts the pieces the
// router swaps into the live page: stylesheet links, module scripts, body
// attributes and body content.
package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/constants"
)

// XPath selectors used against a parsed document.
const (
	roleSelector       = "//*[@" + constants.RoleAttribute + "]"
	stylesheetSelector = "//head/link[@rel='stylesheet']"
	scriptSelector     = "//head/script"
)

// Document is a parsed page. The html parser always synthesizes <head> and
// <body>, so both are non-nil after Parse succeeds.
type Document struct {
	Root *html.Node
	Head *html.Node
	Body *html.Node
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("document: parse: %w", err)
	}

	doc := &Document{
		Root: root,
		Head: htmlquery.FindOne(root, "//head"),
		Body: htmlquery.FindOne(root, "//body"),
	}
	if doc.Head == nil || doc.Body == nil {
		return nil, fmt.Errorf("document: parse: missing head or body")
	}
	return doc, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// StripRoles removes every element whose role marker differs from role and
// returns how many elements were taken out of the tree. Marked elements nested
// in a removed element go with it and are not counted. Elements without a
// marker are kept.
func (d *Document) StripRoles(role constants.Role) int {
	nodes, err := htmlquery.QueryAll(d.Root, roleSelector)
	if err != nil {
		return 0
	}

	gone := make(map[*html.Node]bool)
	for _, n := range nodes {
		if htmlquery.SelectAttr(n, constants.RoleAttribute) == string(role) {
			continue
		}
		// Detached subtrees keep their parent links, so a node inside one
		// still has a Parent.
		if n.Parent == nil || insideRemoved(n, gone) {
			continue
		}
		n.Parent.RemoveChild(n)
		gone[n] = true
	}
	return len(gone)
}

func insideRemoved(n *html.Node, gone map[*html.Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if gone[p] {
			return true
		}
	}
	return false
}

// ModuleScripts returns the src attribute of every <script type="module"> in
// the head, in document order. Inline module scripts yield an empty string.
func (d *Document) ModuleScripts() []string {
	var srcs []string
	for _, n := range htmlquery.Find(d.Root, scriptSelector) {
		if !strings.EqualFold(strings.TrimSpace(htmlquery.SelectAttr(n, "type")), "module") {
			continue
		}
		srcs = append(srcs, htmlquery.SelectAttr(n, "src"))
	}
	return srcs
}

// Stylesheets returns the stylesheet <link> elements of the head in document
// order. The nodes are still attached to the document.
func (d *Document) Stylesheets() []*html.Node {
	return htmlquery.Find(d.Root, stylesheetSelector)
}

// BodyAttributes returns a copy of the body element's attributes.
func (d *Document) BodyAttributes() []html.Attribute {
	attrs := make([]html.Attribute, len(d.Body.Attr))
	copy(attrs, d.Body.Attr)
	return attrs
}

// TakeContent detaches and returns every child of the body, leaving the body
// empty.
func (d *Document) TakeContent() []*html.Node {
	var nodes []*html.Node
	for d.Body.FirstChild != nil {
		n := d.Body.FirstChild
		d.Body.RemoveChild(n)
		nodes = append(nodes, n)
	}
	return nodes
}

// Detach removes n from its parent if it has one.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}
