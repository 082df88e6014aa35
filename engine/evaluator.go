// Package engine evaluates grammar trees into text.
//
// One generation cycle owns one State and one Evaluator. The Evaluator
// walks a source tree, resolving references against a grammar.Store and
// appending fragments to the State; the Generator wires a cycle together
// and renders the result.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/robbyt/go-cfgen/execution/grammar"
	"github.com/robbyt/go-cfgen/execution/tree"
	"github.com/robbyt/go-cfgen/internal/helpers"
	"github.com/robbyt/go-cfgen/options"
)

// Built-in tags. Any other tag is a reference to a grammar rule.
const (
	TagChoice   = "choice"
	TagSequence = "s"
	TagRecall   = "recall"
	TagExtern   = "extern"
)

// NestedFunc runs an independent cycle for <extern> and returns its rendered
// output. depth is the nesting depth at the extern element.
type NestedFunc func(ctx context.Context, grammarLocator, sourceTag string, depth int) (string, error)

type handlerFunc func(ctx context.Context, el *tree.Element, st *State, depth int) error

// Evaluator dispatches on node kind and, for elements, on tag name.
type Evaluator struct {
	store     *grammar.Store
	rand      options.RandSource
	maxDepth  int
	baseDepth int
	nested    NestedFunc
	handlers  map[string]handlerFunc

	logHandler slog.Handler
	logger     *slog.Logger
}

// NewEvaluator creates an Evaluator. A nil store behaves as an empty grammar;
// a nil nested func makes <extern> fail.
func NewEvaluator(
	handler slog.Handler,
	store *grammar.Store,
	rng options.RandSource,
	maxDepth int,
	nested NestedFunc,
) *Evaluator {
	handler, logger := helpers.SetupLogger(handler, "engine", "Evaluator")

	if store == nil {
		store = grammar.NewStore(nil)
	}
	if rng == nil {
		rng = options.DefaultRand()
	}
	if maxDepth <= 0 {
		maxDepth = options.DefaultMaxDepth
	}

	e := &Evaluator{
		store:      store,
		rand:       rng,
		maxDepth:   maxDepth,
		nested:     nested,
		logHandler: handler,
		logger:     logger,
	}
	e.handlers = map[string]handlerFunc{
		TagChoice:   e.handleChoice,
		TagSequence: e.handleSequence,
		TagRecall:   e.handleRecall,
		TagExtern:   e.handleExtern,
	}
	return e
}

func (e *Evaluator) String() string {
	return "engine.Evaluator"
}

// Evaluate walks node, appending every produced fragment to st.
func (e *Evaluator) Evaluate(ctx context.Context, node tree.Node, st *State) error {
	return e.evaluate(ctx, node, st, e.baseDepth)
}

func (e *Evaluator) evaluate(ctx context.Context, node tree.Node, st *State, depth int) error {
	switch n := node.(type) {
	case *tree.Document:
		if n.Root == nil {
			return nil
		}
		return e.evaluate(ctx, n.Root, st, depth)
	case *tree.Text:
		st.AppendContent(n.Content)
		return nil
	case *tree.Element:
		return e.evaluateElement(ctx, n, st, depth+1)
	default:
		return fmt.Errorf("unsupported node type %T", node)
	}
}

func (e *Evaluator) evaluateElement(ctx context.Context, el *tree.Element, st *State, depth int) error {
	if depth > e.maxDepth {
		return fmt.Errorf("%w: depth %d reached at <%s>", ErrRecursionLimit, e.maxDepth, el.Tag)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Built-in tags match case-insensitively, so <Choice> is a choice.
	handler, ok := e.handlers[strings.ToLower(el.Tag)]
	if !ok {
		handler = e.handleReference
	}
	return handler(ctx, el, st, depth)
}

func (e *Evaluator) evaluateChildren(ctx context.Context, el *tree.Element, st *State, depth int) error {
	for _, child := range el.Children {
		if err := e.evaluate(ctx, child, st, depth); err != nil {
			return err
		}
	}
	return nil
}

// pickElement chooses one element child uniformly at random.
func (e *Evaluator) pickElement(el *tree.Element) (*tree.Element, error) {
	alternatives := el.ChildElements()
	if len(alternatives) == 0 {
		return nil, fmt.Errorf("%w: <%s>", ErrNoAlternatives, el.Tag)
	}
	return alternatives[e.rand.IntN(len(alternatives))], nil
}

func (e *Evaluator) handleReference(ctx context.Context, el *tree.Element, st *State, depth int) error {
	rule, err := e.store.Lookup(el.Tag)
	if err != nil {
		return err
	}
	chosen, err := e.pickElement(rule)
	if err != nil {
		return err
	}
	return e.evaluate(ctx, chosen, st, depth)
}

func (e *Evaluator) handleChoice(ctx context.Context, el *tree.Element, st *State, depth int) error {
	chosen, err := e.pickElement(el)
	if err != nil {
		return err
	}
	return e.evaluate(ctx, chosen, st, depth)
}

// handleSequence applies caps, plural, chance and memory in that order.
// Flags set before a closed chance gate stay pending for the next fragment.
func (e *Evaluator) handleSequence(ctx context.Context, el *tree.Element, st *State, depth int) error {
	if isTruthy(el, "caps", "c") {
		st.CapitalizeNext()
	}
	if isTruthy(el, "plural", "p") {
		st.PluralizeNext()
	}

	if raw, ok := el.Attr("chance"); ok {
		chance, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w: chance=%q: %w", ErrInvalidAttribute, raw, err)
		}
		if draw := e.rand.IntN(100); chance <= draw {
			e.logger.DebugContext(ctx, "chance gate closed", "chance", chance, "draw", draw)
			return nil
		}
	}

	if name, ok := el.Attr("memory"); ok {
		st.Declare(name, len(el.Children))
	}

	return e.evaluateChildren(ctx, el, st, depth)
}

// handleRecall appends a captured value. Without a memory attribute it is a no-op.
func (e *Evaluator) handleRecall(_ context.Context, el *tree.Element, st *State, _ int) error {
	name, ok := el.Attr("memory")
	if !ok {
		return nil
	}
	value, err := st.Recall(name)
	if err != nil {
		return err
	}
	st.AppendContent(value)
	return nil
}

func (e *Evaluator) handleExtern(ctx context.Context, el *tree.Element, st *State, depth int) error {
	grammarLocator, ok := el.Attr("grammar")
	if !ok || strings.TrimSpace(grammarLocator) == "" {
		return fmt.Errorf("%w: <%s> requires a grammar attribute", ErrInvalidAttribute, el.Tag)
	}
	sourceTag, ok := el.Attr("source")
	if !ok || strings.TrimSpace(sourceTag) == "" {
		return fmt.Errorf("%w: <%s> requires a source attribute", ErrInvalidAttribute, el.Tag)
	}
	if e.nested == nil {
		return fmt.Errorf("%w: nested generation is not available", ErrInvalidAttribute)
	}

	logger := e.logger.With("grammar", grammarLocator, "source", sourceTag)
	logger.DebugContext(ctx, "entering extern cycle", "depth", depth)

	out, err := e.nested(ctx, grammarLocator, sourceTag, depth)
	if err != nil {
		return fmt.Errorf("extern %s in %s: %w", sourceTag, grammarLocator, err)
	}
	st.AppendContent(out)
	return nil
}

// isTruthy reports whether any of the named attributes is "true", "1" or "yes".
func isTruthy(el *tree.Element, names ...string) bool {
	for _, name := range names {
		switch v, _ := el.Attr(name); v {
		case "true", "1", "yes":
			return true
		}
	}
	return false
}
