// Package tree holds the parsed form of grammar and source documents.
//
// Only three node kinds exist. All grammar semantics live in element tag
// names and attributes, interpreted by the engine package.
package tree

import "strings"

// Kind discriminates the node variants.
type Kind int

const (
	KindText Kind = iota
	KindElement
	KindDocument
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindElement:
		return "element"
	case KindDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Node is implemented by *Text, *Element and *Document.
type Node interface {
	Kind() Kind
}

// Text is literal character data.
type Text struct {
	Content string
}

func (t *Text) Kind() Kind { return KindText }

// Element is a tagged node with attributes and ordered children.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []Node
}

func (e *Element) Kind() Kind { return KindElement }

// Attr returns the attribute value and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// ChildElements returns the element children in document order.
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, child := range e.Children {
		if el, ok := child.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// String renders the element back to compact XML, mostly for log lines.
func (e *Element) String() string {
	var b strings.Builder
	writeElement(&b, e)
	return b.String()
}

// Document wraps the root element of a parsed input.
type Document struct {
	Root *Element
}

func (d *Document) Kind() Kind { return KindDocument }

// NewElement builds an element with no children, as used for synthetic
// sources such as <main/>.
func NewElement(tag string, attrs map[string]string, children ...Node) *Element {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &Element{
		Tag:      tag,
		Attrs:    attrs,
		Children: children,
	}
}
