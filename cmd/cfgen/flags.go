package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"git.sr.ht/~sircmpwn/getopt"
)

const optString = "hg:r:c:s:f:v"

var errUsage = errors.New("usage error")

// longOptions maps every --name to its short form.
var longOptions = map[string]rune{
	"help":    'h',
	"grammar": 'g',
	"repeat":  'r',
	"config":  'c',
	"seed":    's',
	"filter":  'f',
	"verbose": 'v',
}

type flags struct {
	help    bool
	verbose bool
	grammar string
	config  string
	filter  string
	repeat  *time.Duration
	seed    *uint64
	source  string
}

func takesArgument(opt rune) bool {
	i := strings.IndexRune(optString, opt)
	return i >= 0 && i+1 < len(optString) && optString[i+1] == ':'
}

// normalizeArgs rewrites --name and --name=value into short options so getopt
// can parse them. Like getopt, it stops at the first operand or "--".
func normalizeArgs(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{"cfgen"}, nil
	}
	out := []string{args[0]}

	for i := 1; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return append(out, args[i:]...), nil

		case strings.HasPrefix(arg, "--"):
			name, value, hasValue := strings.Cut(arg[2:], "=")
			opt, ok := longOptions[name]
			if !ok {
				return nil, fmt.Errorf("%w: unknown option --%s", errUsage, name)
			}
			short := "-" + string(opt)
			switch {
			case !takesArgument(opt) && hasValue:
				return nil, fmt.Errorf("%w: option --%s takes no argument", errUsage, name)
			case !takesArgument(opt):
				out = append(out, short)
			case hasValue:
				out = append(out, short, value)
			case i+1 < len(args):
				out = append(out, short, args[i+1])
				i++
			default:
				return nil, fmt.Errorf("%w: option --%s requires an argument", errUsage, name)
			}

		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			out = append(out, arg)
			// a trailing argument-taking option in a cluster consumes the next arg
			for j, opt := range arg[1:] {
				if !takesArgument(opt) {
					continue
				}
				if j+1 == len(arg)-1 && i+1 < len(args) {
					out = append(out, args[i+1])
					i++
				}
				break
			}

		default:
			return append(out, args[i:]...), nil
		}
	}
	return out, nil
}

func parseFlags(args []string) (*flags, error) {
	argv, err := normalizeArgs(args)
	if err != nil {
		return nil, err
	}

	opts, optind, err := getopt.Getopts(argv, optString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}

	f := &flags{}
	for _, opt := range opts {
		switch opt.Option {
		case 'h':
			f.help = true
		case 'v':
			f.verbose = true
		case 'g':
			f.grammar = opt.Value
		case 'c':
			f.config = opt.Value
		case 'f':
			f.filter = opt.Value
		case 'r':
			seconds, err := strconv.ParseFloat(opt.Value, 64)
			if err != nil || seconds < 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
				return nil, fmt.Errorf("%w: invalid argument -r %s", errUsage, opt.Value)
			}
			delay := time.Duration(seconds * float64(time.Second))
			f.repeat = &delay
		case 's':
			seed, err := strconv.ParseUint(opt.Value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid argument -s %s", errUsage, opt.Value)
			}
			f.seed = &seed
		}
	}

	f.source = strings.Join(argv[optind:], "")
	return f, nil
}
