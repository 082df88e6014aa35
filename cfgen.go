// Package cfgen generates randomized text from XML context-free grammars.
//
// A grammar is an XML document whose root element's children are named rules.
// A source document references those rules by tag; each generation walks the
// source, picks alternatives at random and renders the collected fragments.
//
//	g, err := cfgen.FromGrammarString(ctx, `<grammar>
//	  <main><s><s caps="true"/><animal/> barks.</s></main>
//	  <animal><s>dog</s><s>fox</s></animal>
//	</grammar>`)
//	if err != nil {
//		return err
//	}
//	out, err := g.Generate(ctx) // "Dog barks." or "Fox barks."

package cfgen

import (
	"context"

	"github.com/robbyt/go-cfgen/engine"
	"github.com/robbyt/go-cfgen/execution/loader"
	"github.com/robbyt/go-cfgen/options"
)

// New creates a Generator. Build it once and call Generate for every output.
func New(ctx context.Context, opts ...options.Option) (*engine.Generator, error) {
	return engine.NewGenerator(ctx, opts...)
}

// Generate runs a single cycle with a throwaway Generator.
func Generate(ctx context.Context, opts ...options.Option) (string, error) {
	g, err := New(ctx, opts...)
	if err != nil {
		return "", err
	}
	return g.Generate(ctx)
}

// FromGrammarString creates a Generator for inline grammar XML.
func FromGrammarString(ctx context.Context, content string, opts ...options.Option) (*engine.Generator, error) {
	l, err := loader.NewFromString(content)
	if err != nil {
		return nil, err
	}

	allOpts := append([]options.Option{options.WithGrammarLoader(l)}, opts...)
	return New(ctx, allOpts...)
}

// FromGrammarFile creates a Generator for a grammar on disk. filePath must be absolute.
func FromGrammarFile(ctx context.Context, filePath string, opts ...options.Option) (*engine.Generator, error) {
	l, err := loader.NewFromDisk(filePath)
	if err != nil {
		return nil, err
	}

	allOpts := append([]options.Option{options.WithGrammarLoader(l)}, opts...)
	return New(ctx, allOpts...)
}

// FromGrammarURL creates a Generator for a grammar served over HTTP(S).
func FromGrammarURL(
	ctx context.Context,
	rawURL string,
	httpOpts *loader.HTTPOptions,
	opts ...options.Option,
) (*engine.Generator, error) {
	l, err := loader.NewFromHTTPWithOptions(rawURL, httpOpts)
	if err != nil {
		return nil, err
	}

	allOpts := append([]options.Option{options.WithGrammarLoader(l)}, opts...)
	return New(ctx, allOpts...)
}
