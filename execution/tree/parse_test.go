package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("elements text and attributes", func(t *testing.T) {
		doc, err := Parse(strings.NewReader(
			`<?xml version="1.0"?><grammar><noun><s caps="true" chance="50">dog</s><s>cat</s></noun></grammar>`,
		))
		require.NoError(t, err)
		require.Equal(t, KindDocument, doc.Kind())
		require.Equal(t, "grammar", doc.Root.Tag)

		rules := doc.Root.ChildElements()
		require.Len(t, rules, 1)
		noun := rules[0]
		require.Equal(t, "noun", noun.Tag)

		alternatives := noun.ChildElements()
		require.Len(t, alternatives, 2)

		caps, ok := alternatives[0].Attr("caps")
		require.True(t, ok)
		assert.Equal(t, "true", caps)
		chance, ok := alternatives[0].Attr("chance")
		require.True(t, ok)
		assert.Equal(t, "50", chance)
		_, ok = alternatives[1].Attr("caps")
		assert.False(t, ok)

		require.Len(t, alternatives[0].Children, 1)
		text, ok := alternatives[0].Children[0].(*Text)
		require.True(t, ok)
		assert.Equal(t, KindText, text.Kind())
		assert.Equal(t, "dog", text.Content)
	})

	t.Run("whitespace text nodes are kept", func(t *testing.T) {
		doc, err := Parse(strings.NewReader("<s>\n  <a/>\n  <b/>\n</s>"))
		require.NoError(t, err)

		kinds := make([]Kind, 0, len(doc.Root.Children))
		for _, child := range doc.Root.Children {
			kinds = append(kinds, child.Kind())
		}
		assert.Equal(t, []Kind{KindText, KindElement, KindText, KindElement, KindText}, kinds)
		assert.Len(t, doc.Root.ChildElements(), 2)
	})

	t.Run("adjacent character data merges", func(t *testing.T) {
		doc, err := Parse(strings.NewReader("<s>fish &amp; <![CDATA[chips]]><!-- dropped -->!</s>"))
		require.NoError(t, err)
		require.Len(t, doc.Root.Children, 1)
		assert.Equal(t, "fish & chips!", doc.Root.Children[0].(*Text).Content)
	})

	t.Run("namespace prefixes are ignored", func(t *testing.T) {
		doc, err := Parse(strings.NewReader(`<g:grammar xmlns:g="urn:cfg"><g:main/></g:grammar>`))
		require.NoError(t, err)
		assert.Equal(t, "grammar", doc.Root.Tag)
		assert.Equal(t, "main", doc.Root.ChildElements()[0].Tag)
	})

	t.Run("errors", func(t *testing.T) {
		cases := []struct {
			name  string
			input string
			err   error
		}{
			{name: "empty", input: "", err: ErrNoRoot},
			{name: "only prolog", input: `<?xml version="1.0"?>`, err: ErrNoRoot},
			{name: "two roots", input: "<a/><b/>", err: ErrMultipleRoot},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				doc, err := Parse(strings.NewReader(tc.input))
				require.ErrorIs(t, err, tc.err)
				require.Nil(t, doc)
			})
		}

		_, err := Parse(strings.NewReader("<a><b></a>"))
		require.ErrorContains(t, err, "invalid XML")
	})
}

func TestElementString(t *testing.T) {
	t.Parallel()

	el := NewElement("s", map[string]string{"p": "1", "caps": "yes"},
		&Text{Content: "a <b>"},
		NewElement("noun", nil),
	)
	assert.Equal(t, `<s caps="yes" p="1">a &lt;b&gt;<noun/></s>`, el.String())
	assert.Equal(t, "element", el.Kind().String())
}
