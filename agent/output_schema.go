package agent

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonschema"

	"github.com/hupe1980/agentrun/core"
)

// OutputSchemaOptions configures an OutputSchema.
type OutputSchemaOptions struct {
	// Strict rejects any terminal response that does not conform exactly to
	// the schema. Defaults to true.
	Strict bool
}

// OutputSchema declares that an agent's terminal response must be a JSON value
// conforming to a JSON Schema.
//
// Strict mode: a response that fails to parse or validate is a
// *core.ModelBehaviorError and terminates the run. Non-strict mode coerces
// pragmatically: markdown code fences around the JSON are stripped first, and
// if the payload still cannot be parsed or validated, the raw response string
// is accepted as the final output.
type OutputSchema struct {
	name     string
	schema   json.RawMessage
	strict   bool
	compiled *jsonschema.Schema
}

// NewOutputSchema compiles schema for validation. An invalid schema is a
// caller mistake and yields a *core.UserError.
func NewOutputSchema(name string, schema json.RawMessage, optFns ...func(o *OutputSchemaOptions)) (*OutputSchema, error) {
	opts := OutputSchemaOptions{Strict: true}
	for _, fn := range optFns {
		fn(&opts)
	}

	compiler := jsonschema.NewCompiler()
	compiled, err := compiler.Compile(schema)
	if err != nil {
		return nil, core.NewUserError("output schema %q is invalid: %v", name, err)
	}

	return &OutputSchema{
		name:     name,
		schema:   schema,
		strict:   opts.Strict,
		compiled: compiled,
	}, nil
}

// MustNewOutputSchema is like NewOutputSchema but panics on an invalid schema.
func MustNewOutputSchema(name string, schema json.RawMessage, optFns ...func(o *OutputSchemaOptions)) *OutputSchema {
	s, err := NewOutputSchema(name, schema, optFns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema's identifier.
func (s *OutputSchema) Name() string { return s.name }

// Schema returns the raw JSON Schema.
func (s *OutputSchema) Schema() json.RawMessage { return s.schema }

// Strict reports whether exact conformance is required.
func (s *OutputSchema) Strict() bool { return s.strict }

// Validate checks the terminal response text against the schema and returns
// the decoded value on success.
func (s *OutputSchema) Validate(text string) (any, error) {
	payload := text
	if !s.strict {
		payload = stripCodeFences(payload)
	}

	var value any
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		if s.strict {
			return nil, core.NewModelBehaviorError("output is not valid JSON for schema %q: %v", s.name, err)
		}
		return text, nil
	}

	if result := s.compiled.Validate(value); !result.IsValid() {
		if s.strict {
			return nil, core.NewModelBehaviorError("output does not conform to schema %q: %s", s.name, result.Error())
		}
		return text, nil
	}

	return value, nil
}

// codeFenceRe matches markdown code fences wrapping JSON.
var codeFenceRe = regexp.MustCompile(`(?si)^` + "```" + `(?:json)?\s*(.*?)\s*` + "```" + `$`)

// stripCodeFences removes markdown code fences if the model wrapped its output.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return trimmed
}
