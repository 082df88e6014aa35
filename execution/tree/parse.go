package tree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

var (
	ErrNoRoot       = errors.New("document has no root element")
	ErrMultipleRoot = errors.New("document has more than one root element")
)

// Parse reads one XML document. Adjacent character data, including CDATA
// sections, merges into a single Text node. Whitespace-only text between
// elements is kept: it is output like any other text. Comments, processing
// instructions and directives are dropped.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	var (
		root  *Element
		stack []*Element
		text  strings.Builder
	)

	flush := func() {
		if text.Len() == 0 || len(stack) == 0 {
			text.Reset()
			return
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, &Text{Content: text.String()})
		text.Reset()
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			flush()
			el := NewElement(t.Name.Local, nil)
			for _, attr := range t.Attr {
				el.Attrs[attr.Name.Local] = attr.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, ErrMultipleRoot
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			flush()
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, ErrNoRoot
	}
	return &Document{Root: root}, nil
}

func writeElement(b *strings.Builder, e *Element) {
	b.WriteByte('<')
	b.WriteString(e.Tag)
	for _, name := range slices.Sorted(maps.Keys(e.Attrs)) {
		fmt.Fprintf(b, " %s=%q", name, e.Attrs[name])
	}
	if len(e.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, child := range e.Children {
		switch c := child.(type) {
		case *Text:
			_ = xml.EscapeText(b, []byte(c.Content))
		case *Element:
			writeElement(b, c)
		}
	}
	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteByte('>')
}
