package grammar

import "errors"

var (
	// ErrGrammarLoad covers any locator that cannot be read or parsed,
	// for grammars and sources alike.
	ErrGrammarLoad = errors.New("grammar load failed")

	// ErrUndefinedReference is returned for a tag with no matching rule.
	ErrUndefinedReference = errors.New("undefined reference")
)
