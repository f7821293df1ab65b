package functions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/contentmigrate/pageheader/internal/fold"
	"github.com/contentmigrate/pageheader/legacy"
	"github.com/contentmigrate/pageheader/logging"
)

// FieldType is the kind of modern value a function produces.
type FieldType int

const (
	FieldTypeString FieldType = iota
	// FieldTypeUser results must be a JSON list of principals.
	FieldTypeUser
)

func (f FieldType) String() string {
	switch f {
	case FieldTypeString:
		return "String"
	case FieldTypeUser:
		return "User"
	default:
		return fmt.Sprintf("FieldType(%d)", int(f))
	}
}

// Processor evaluates function expressions against one legacy page.
type Processor struct {
	page     legacy.Page
	builtins map[string]Builtin
	scripts  *ScriptRuntime
	logger   logging.Logger
}

type Option func(*Processor)

// WithScripts makes the script runtime's functions callable. Built-ins win on
// name clashes.
func WithScripts(rt *ScriptRuntime) Option {
	return func(p *Processor) {
		p.scripts = rt
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithBuiltin registers or replaces a Go function.
func WithBuiltin(name string, b Builtin) Option {
	return func(p *Processor) {
		p.builtins[fold.String(name)] = b
	}
}

func NewProcessor(page legacy.Page, opts ...Option) *Processor {
	p := &Processor{
		page:     page,
		builtins: map[string]Builtin{},
		logger:   logging.Discard,
	}
	for name, b := range builtins() {
		p.builtins[fold.String(name)] = b
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process evaluates expression for fieldName. On success status is the field
// name and value the function result. An empty status means the function
// could not be evaluated: the expression did not parse, the function is
// unknown, or it does not apply to fieldType. Those cases are logged, not
// returned. A returned error is a hard fault of the function itself.
func (p *Processor) Process(ctx context.Context, expression, fieldName string, fieldType FieldType) (status, value string, err error) {
	call, err := Expression(expression).Parse()
	if err != nil {
		p.logger.Warn(logging.CategoryFunctions, fmt.Sprintf("field %s: %v", fieldName, err))
		return "", "", nil
	}

	args := p.resolveArgs(call.Args)

	if b, ok := p.builtins[fold.String(call.Name)]; ok {
		if b.UserOnly && fieldType != FieldTypeUser {
			p.logger.Warn(logging.CategoryFunctions, fmt.Sprintf("field %s: %s only applies to user fields", fieldName, call.Name))
			return "", "", nil
		}
		if b.Args >= 0 && len(args) != b.Args {
			p.logger.Warn(logging.CategoryFunctions, fmt.Sprintf("field %s: %v: %s takes %d, got %d", fieldName, ErrArgumentCount, call.Name, b.Args, len(args)))
			return "", "", nil
		}

		value, err = b.Fn(ctx, args)
		if err != nil {
			return "", "", fmt.Errorf("%s: %w", call.Name, err)
		}
		return p.finish(fieldName, call.Name, value, fieldType)
	}

	if p.scripts != nil && p.scripts.Has(call.Name) {
		value, err = p.scripts.Call(ctx, call.Name, args, Invocation{FieldName: fieldName, FieldType: fieldType.String()})
		if err != nil {
			return "", "", err
		}
		return p.finish(fieldName, call.Name, value, fieldType)
	}

	p.logger.Warn(logging.CategoryFunctions, fmt.Sprintf("field %s: unknown function %s", fieldName, call.Name))
	return "", "", nil
}

func (p *Processor) resolveArgs(args []Arg) []string {
	var values map[string]string
	if p.page != nil {
		values = p.page.FieldValues()
	}

	out := make([]string, len(args))
	for i, a := range args {
		if a.IsField {
			out[i] = values[a.Field]
		} else {
			out[i] = a.Literal
		}
	}
	return out
}

func (p *Processor) finish(fieldName, function, value string, fieldType FieldType) (string, string, error) {
	if fieldType == FieldTypeUser && value != "" && !isPrincipalList(value) {
		p.logger.Warn(logging.CategoryFunctions, fmt.Sprintf("field %s: %s did not return a principal list", fieldName, function))
		return "", "", nil
	}

	status := fieldName
	if status == "" {
		status = function
	}
	return status, value, nil
}

func isPrincipalList(value string) bool {
	var list []json.RawMessage
	return strings.HasPrefix(strings.TrimSpace(value), "[") && json.Unmarshal([]byte(value), &list) == nil
}
