package mapping

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/contentmigrate/pageheader/errors"
	jsValidator "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

const schemaLocation = "pageheader-mapping.json"

var (
	schemaOnce      sync.Once
	schemaValidator *jsValidator.Schema
	defaultPrinter  = message.NewPrinter(language.English)
)

// ValidateSchema checks raw mapping YAML against the mapping JSON schema and
// returns one error per violated leaf constraint.
func ValidateSchema(data []byte) []error {
	initSchema()

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []error{fmt.Errorf("mapping is not valid YAML: %w", err)}
	}

	buf := bytes.NewBuffer([]byte{})
	if err := json.NewEncoder(buf).Encode(doc); err != nil {
		return []error{fmt.Errorf("mapping cannot be represented as JSON: %w", err)}
	}

	instance, err := jsValidator.UnmarshalJSON(buf)
	if err != nil {
		return []error{fmt.Errorf("mapping cannot be represented as JSON: %w", err)}
	}

	err = schemaValidator.Validate(instance)
	if err == nil {
		return nil
	}

	var validationErr *jsValidator.ValidationError
	if errors.As(err, &validationErr) {
		return rootCauses(validationErr)
	}
	return []error{fmt.Errorf("mapping invalid: %w", err)}
}

func rootCauses(err *jsValidator.ValidationError) []error {
	if len(err.Causes) == 0 {
		location := "/" + strings.Join(err.InstanceLocation, "/")
		return []error{fmt.Errorf("mapping field %s %s", location, err.ErrorKind.LocalizedString(defaultPrinter))}
	}

	var errs []error
	for _, cause := range err.Causes {
		errs = append(errs, rootCauses(cause)...)
	}
	return errs
}

func initSchema() {
	schemaOnce.Do(func() {
		doc, err := jsValidator.UnmarshalJSON(strings.NewReader(schemaJSON))
		if err != nil {
			panic(err)
		}

		c := jsValidator.NewCompiler()
		if err := c.AddResource(schemaLocation, doc); err != nil {
			panic(err)
		}
		schemaValidator = c.MustCompile(schemaLocation)
	})
}
