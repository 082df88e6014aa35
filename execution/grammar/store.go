// Package grammar indexes a parsed grammar document by rule name.
package grammar

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/robbyt/go-cfgen/execution/loader"
	"github.com/robbyt/go-cfgen/execution/tree"
	"github.com/robbyt/go-cfgen/internal/helpers"
)

// Store maps top-level rule names to their rule elements.
// A Store is built per generation cycle and never modified afterwards.
type Store struct {
	rules     map[string]*tree.Element
	sourceURL string
	logger    *slog.Logger
}

// NewStore indexes the root's element children by tag name. When a name
// repeats, the last rule wins. A nil document gives an empty store.
func NewStore(doc *tree.Document) *Store {
	s := &Store{rules: make(map[string]*tree.Element)}
	if doc == nil || doc.Root == nil {
		return s
	}
	for _, rule := range doc.Root.ChildElements() {
		s.rules[rule.Tag] = rule
	}
	return s
}

// Load reads and parses the grammar behind l and indexes it.
func Load(ctx context.Context, handler slog.Handler, l loader.Loader) (*Store, error) {
	_, logger := helpers.SetupLogger(handler, "grammar", "Store")

	doc, err := LoadDocument(ctx, l)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load grammar", "error", err)
		return nil, err
	}

	s := NewStore(doc)
	s.logger = logger
	if u := l.GetSourceURL(); u != nil {
		s.sourceURL = u.String()
	}
	logger.DebugContext(ctx, "grammar loaded", "source", s.sourceURL, "rules", len(s.rules))
	return s, nil
}

// LoadDocument reads and parses the document behind l. Every failure,
// including a nil loader, wraps ErrGrammarLoad.
func LoadDocument(ctx context.Context, l loader.Loader) (*tree.Document, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: loader is nil", ErrGrammarLoad)
	}

	reader, err := l.GetReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrGrammarLoad, describe(l), err)
	}
	defer func() { _ = reader.Close() }()

	doc, err := tree.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrGrammarLoad, describe(l), err)
	}
	return doc, nil
}

// Lookup returns the rule registered under tag.
func (s *Store) Lookup(tag string) (*tree.Element, error) {
	rule, ok := s.rules[tag]
	if !ok {
		if s.logger != nil {
			s.logger.Debug("lookup miss", "tag", tag, "source", s.sourceURL)
		}
		return nil, fmt.Errorf("%w: <%s>", ErrUndefinedReference, tag)
	}
	return rule, nil
}

// Len is the number of distinct rules.
func (s *Store) Len() int {
	return len(s.rules)
}

// Rules returns the rule names in sorted order.
func (s *Store) Rules() []string {
	return slices.Sorted(maps.Keys(s.rules))
}

// SourceURL names where the grammar was loaded from, empty for NewStore.
func (s *Store) SourceURL() string {
	return s.sourceURL
}

func describe(l loader.Loader) string {
	if u := l.GetSourceURL(); u != nil {
		return u.String()
	}
	return fmt.Sprintf("%v", l)
}
