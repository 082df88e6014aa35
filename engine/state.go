package engine

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"unicode"
	"unicode/utf8"
)

// MemorySlot captures the next Remaining appended fragments into Value.
type MemorySlot struct {
	Remaining int
	Value     string
}

// State is the mutable context of one generation cycle. It is owned by the
// Evaluator running that cycle and never shared with nested extern cycles.
type State struct {
	capitalizeNext bool
	pluralizeNext  bool
	memory         map[string]*MemorySlot
	pieces         []string
}

func NewState() *State {
	return &State{memory: make(map[string]*MemorySlot)}
}

// CapitalizeNext marks the next appended fragment for capitalization.
func (s *State) CapitalizeNext() {
	s.capitalizeNext = true
}

// PluralizeNext marks the next appended fragment for pluralization.
func (s *State) PluralizeNext() {
	s.pluralizeNext = true
}

// Pending reports the capitalize and pluralize flags.
func (s *State) Pending() (capitalize, pluralize bool) {
	return s.capitalizeNext, s.pluralizeNext
}

// Declare creates or replaces the named slot, capturing the next captures fragments.
func (s *State) Declare(name string, captures int) {
	s.memory[name] = &MemorySlot{Remaining: captures}
}

// Recall returns the value captured so far by the named slot.
func (s *State) Recall(name string) (string, error) {
	slot, ok := s.memory[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUndefinedMemory, name)
	}
	return slot.Value, nil
}

// Slot returns a copy of the named slot.
func (s *State) Slot(name string) (MemorySlot, bool) {
	slot, ok := s.memory[name]
	if !ok {
		return MemorySlot{}, false
	}
	return *slot, true
}

// Slots returns the declared slot names in sorted order.
func (s *State) Slots() []string {
	return slices.Sorted(maps.Keys(s.memory))
}

// Pieces returns the fragments appended so far.
func (s *State) Pieces() []string {
	return s.pieces
}

// AppendContent adds one fragment to the output. Pending capitalization is
// applied first, then pending pluralization; both flags are consumed. Every
// slot still capturing receives the resulting text.
func (s *State) AppendContent(text string) {
	if s.capitalizeNext {
		text = capitalize(text)
		s.capitalizeNext = false
	}
	if s.pluralizeNext {
		text = Pluralize(text)
		s.pluralizeNext = false
	}
	for _, slot := range s.memory {
		if slot.Remaining > 0 {
			slot.Value += text
			slot.Remaining--
		}
	}
	s.pieces = append(s.pieces, text)
}

func capitalize(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if size == 0 {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}

var pluralRules = []struct {
	match  *regexp.Regexp
	suffix string
	trim   int
}{
	{match: regexp.MustCompile(`(ch|sh|s|z|x)$`), suffix: "es"},
	{match: regexp.MustCompile(`[bcdfghjklmnpqrstvwxz]y$`), suffix: "ies", trim: 1},
	{match: regexp.MustCompile(`[^o]o$`), suffix: "es"},
}

// Pluralize applies the first matching English plural heuristic:
// box→boxes, fly→flies, potato→potatoes, kangaroo→kangaroos, cat→cats.
func Pluralize(text string) string {
	for _, rule := range pluralRules {
		if rule.match.MatchString(text) {
			return text[:len(text)-rule.trim] + rule.suffix
		}
	}
	return text + "s"
}
