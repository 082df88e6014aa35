package filter

import (
	"fmt"
	"maps"
	"regexp"

	starlarkJSON "go.starlark.net/lib/json"
	starlarkMath "go.starlark.net/lib/math"
	starlarkTime "go.starlark.net/lib/time"
	starlarkLib "go.starlark.net/starlark"
)

const (
	namespaceJSON = "json"
	namespaceMath = "math"
	namespaceTime = "time"

	builtinSub = "sub"
)

// universe returns the predeclared names available to filter scripts: the
// Starlark universe, the json, math and time modules, and sub().
func universe() starlarkLib.StringDict {
	u := maps.Clone(starlarkLib.Universe)
	u[namespaceJSON] = starlarkJSON.Module
	u[namespaceMath] = starlarkMath.Module
	u[namespaceTime] = starlarkTime.Module
	u[builtinSub] = starlarkLib.NewBuiltin(builtinSub, sub)
	return u
}

// sub(pattern, repl, text) replaces every match of the Go regexp pattern.
// repl may use $1 style group references.
func sub(
	_ *starlarkLib.Thread,
	b *starlarkLib.Builtin,
	args starlarkLib.Tuple,
	kwargs []starlarkLib.Tuple,
) (starlarkLib.Value, error) {
	var pattern, repl, text string
	if err := starlarkLib.UnpackArgs(b.Name(), args, kwargs,
		"pattern", &pattern, "repl", &repl, "text", &text); err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlarkLib.String(re.ReplaceAllString(text, repl)), nil
}
