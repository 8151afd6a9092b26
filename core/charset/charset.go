package charset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/ejfont/core"
	"golang.org/x/text/unicode/runenames"
)

// RangeError is returned for a malformed descriptor token. Input holds the exact
// substring which failed to parse, Token the descriptor token it is part of.
type RangeError struct {
	Input   string
	Token   string
	Message string
}

func (e *RangeError) Error() string {
	if e.Token != "" && e.Token != e.Input {
		return fmt.Sprintf("%s (in token %q)", e.Message, e.Token)
	}
	return e.Message
}

func rangeError(input, token, format string, v ...interface{}) error {
	re := &RangeError{
		Input:   input,
		Token:   token,
		Message: fmt.Sprintf(format, v...),
	}
	return core.WrapError(re, core.ERANGE, "invalid character range %q", token)
}

// Parse resolves a descriptor to a list of code points.
// Semicolons are treated like commas.
func Parse(descriptor string) ([]rune, error) {
	descriptor = strings.ReplaceAll(descriptor, ";", ",")
	var codes []rune
	for _, token := range strings.Split(descriptor, ",") {
		from, to, isRange := strings.Cut(token, "-")
		if !isRange {
			c, err := parseCode(token, token)
			if err != nil {
				return nil, err
			}
			codes = append(codes, c)
			continue
		}
		start, err := parseCode(from, token)
		if err != nil {
			return nil, err
		}
		end, err := parseCode(to, token)
		if err != nil {
			return nil, err
		}
		if end > utf8.MaxRune+1 { // everything above is dropped by Resolve anyway
			end = utf8.MaxRune + 1
		}
		for c := start; c < end; c++ {
			codes = append(codes, c)
		}
	}
	tracer().Debugf("character range %q resolves to %d codes", descriptor, len(codes))
	return codes, nil
}

// ParseCode parses a single code of the form 0xNN. Surrounding whitespace is
// ignored, the prefix "0x" is mandatory and case-sensitive.
func ParseCode(token string) (rune, error) {
	return parseCode(token, token)
}

func parseCode(s, token string) (rune, error) {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "0x") {
		return 0, rangeError(s, token, "Number %s doesn't start with 0x", t)
	}
	n, err := strconv.ParseUint(t[2:], 16, 32)
	if err != nil || n > math.MaxInt32 {
		return 0, rangeError(s, token, "Number %s could not be parsed as a hexadecimal number", t)
	}
	return rune(n), nil
}

// Options control the filtering of parsed code points.
type Options struct {
	SkipControl bool // drop control characters
	AddNull     bool // prepend code point 0x0, regardless of SkipControl
}

// Resolve filters a list of parsed code points. Invalid runes and the space
// character are always dropped.
func Resolve(codes []rune, opts Options) []rune {
	resolved := make([]rune, 0, len(codes)+1)
	if opts.AddNull {
		resolved = append(resolved, 0)
	}
	for _, c := range codes {
		switch {
		case !utf8.ValidRune(c):
			tracer().Debugf("dropping invalid code point 0x%x", c)
		case c == ' ':
		case opts.SkipControl && unicode.IsControl(c):
		default:
			resolved = append(resolved, c)
		}
	}
	return resolved
}

// ParseAndResolve is a shortcut for Parse followed by Resolve.
func ParseAndResolve(descriptor string, opts Options) ([]rune, error) {
	codes, err := Parse(descriptor)
	if err != nil {
		return nil, err
	}
	return Resolve(codes, opts), nil
}

// Describe returns a human readable description of a code point, e.g.
// "U+0041 LATIN CAPITAL LETTER A".
func Describe(r rune) string {
	name := runenames.Name(r)
	if name == "" {
		return fmt.Sprintf("U+%04X", r)
	}
	return fmt.Sprintf("U+%04X %s", r, name)
}
