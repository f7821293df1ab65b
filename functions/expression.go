// Package functions evaluates the function expressions a mapping attaches to a
// header field, such as "ToImageUrl({PublishingPageImage})".
package functions

import (
	"strings"
	"unicode"

	"github.com/contentmigrate/pageheader/errors"
)

const ErrInvalidExpression = errors.Error("invalid function expression")

// Expression is a single function call: Name(arg, ...). An argument is either
// a field reference "{FieldName}" or a quoted literal 'text' where '' escapes
// a quote.
type Expression string

// Arg is one parsed argument.
type Arg struct {
	// Field is set for field references.
	Field string

	// Literal is set for quoted literals.
	Literal string

	IsField bool
}

// Call is a parsed Expression.
type Call struct {
	Name string
	Args []Arg
}

func (e Expression) Parse() (*Call, error) {
	s := strings.TrimSpace(string(e))

	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return nil, ErrInvalidExpression.Wrapf("%q must look like Name(args)", string(e))
	}

	name := strings.TrimSpace(s[:open])
	if !isIdentifier(name) {
		return nil, ErrInvalidExpression.Wrapf("%q is not a function name", name)
	}

	args, err := parseArgs(s[open+1 : len(s)-1])
	if err != nil {
		return nil, ErrInvalidExpression.Wrapf("%s: %v", name, err)
	}

	return &Call{Name: name, Args: args}, nil
}

func parseArgs(s string) ([]Arg, error) {
	var args []Arg
	rest := strings.TrimSpace(s)
	if rest == "" {
		return nil, nil
	}

	for {
		var (
			arg Arg
			err error
		)
		switch rest[0] {
		case '{':
			arg, rest, err = parseField(rest)
		case '\'':
			arg, rest, err = parseLiteral(rest)
		default:
			return nil, errors.New("argument must be {Field} or 'literal' at " + quote(rest))
		}
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		rest = strings.TrimSpace(rest)
		if rest == "" {
			return args, nil
		}
		if rest[0] != ',' {
			return nil, errors.New("expected ',' at " + quote(rest))
		}
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			return nil, errors.New("trailing ','")
		}
	}
}

func parseField(s string) (Arg, string, error) {
	end := strings.IndexByte(s, '}')
	if end < 0 {
		return Arg{}, "", errors.New("unterminated field reference " + quote(s))
	}
	name := strings.TrimSpace(s[1:end])
	if name == "" {
		return Arg{}, "", errors.New("empty field reference")
	}
	return Arg{Field: name, IsField: true}, s[end+1:], nil
}

func parseLiteral(s string) (Arg, string, error) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		return Arg{Literal: b.String()}, s[i+1:], nil
	}
	return Arg{}, "", errors.New("unterminated literal " + quote(s))
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func quote(s string) string {
	const limit = 20
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return "'" + s + "'"
}
