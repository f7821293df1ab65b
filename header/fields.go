package header

import (
	"context"
	"strings"

	"github.com/contentmigrate/pageheader/functions"
	"github.com/contentmigrate/pageheader/legacy"
	"github.com/contentmigrate/pageheader/mapping"
)

// FunctionProcessor evaluates a field's function expression. An empty status
// means the expression produced nothing. functions.Processor implements it.
type FunctionProcessor interface {
	Process(ctx context.Context, expression, fieldName string, fieldType functions.FieldType) (status, value string, err error)
}

type fieldResolver struct {
	page      legacy.Page
	functions FunctionProcessor
}

// value returns the effective value of field. Fields with functions are
// evaluated, others are read from the page and trimmed. Only hard faults of
// the function processor are returned as errors.
func (r fieldResolver) value(ctx context.Context, field *mapping.HeaderField, fieldType functions.FieldType) (string, error) {
	if field.Functions != "" {
		status, value, err := r.functions.Process(ctx, field.Functions, field.Name, fieldType)
		if err != nil {
			return "", err
		}
		if status == "" {
			return "", nil
		}
		return value, nil
	}

	return strings.TrimSpace(r.page.FieldValues()[field.Name]), nil
}
