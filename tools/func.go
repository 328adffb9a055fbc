package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// FuncTool adapts a typed Go function into a Tool. The input type's JSON
// schema is generated once at construction and exposed through InputSchema.
type FuncTool struct {
	name        string
	description string
	call        func(ctx context.Context, input string) (string, error)
	schema      map[string]any
}

var (
	_ Tool           = (*FuncTool)(nil)
	_ SchemaProvider = (*FuncTool)(nil)
)

// NewFunc builds a FuncTool from fn. The input type I must be a struct or
// pointer to struct so a schema can be generated; the model's JSON
// arguments are unmarshaled into it on every call. The output is marshaled
// back to JSON, except string outputs which pass through verbatim.
func NewFunc[I any, O any](name, description string, fn func(context.Context, I) (O, error)) (*FuncTool, error) {
	if name == "" {
		return nil, fmt.Errorf("tool name is required")
	}

	inputType := reflect.TypeFor[I]()
	concrete := inputType
	if concrete.Kind() == reflect.Pointer {
		concrete = concrete.Elem()
	}
	if concrete.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tool %s: input type %s is not a struct", name, inputType)
	}

	schema, err := inputSchema(concrete)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}

	return &FuncTool{
		name:        name,
		description: description,
		call:        typedCall(inputType, fn),
		schema:      schema,
	}, nil
}

func (t *FuncTool) Name() string                { return t.name }
func (t *FuncTool) Description() string         { return t.description }
func (t *FuncTool) InputSchema() map[string]any { return t.schema }

func (t *FuncTool) Call(ctx context.Context, input string) (string, error) {
	return t.call(ctx, input)
}

// typedCall bridges the string-in/string-out Tool contract to the typed
// function. Empty input decodes as an empty object.
func typedCall[I any, O any](inputType reflect.Type, fn func(context.Context, I) (O, error)) func(context.Context, string) (string, error) {
	return func(ctx context.Context, input string) (string, error) {
		if input == "" {
			input = "{}"
		}

		var in I
		if inputType.Kind() == reflect.Pointer {
			ptr := reflect.New(inputType.Elem())
			if err := json.Unmarshal([]byte(input), ptr.Interface()); err != nil {
				return "", fmt.Errorf("decode input: %w", err)
			}
			in = ptr.Interface().(I)
		} else {
			if err := json.Unmarshal([]byte(input), &in); err != nil {
				return "", fmt.Errorf("decode input: %w", err)
			}
		}

		out, err := fn(ctx, in)
		if err != nil {
			return "", err
		}

		if s, ok := any(out).(string); ok {
			return s, nil
		}
		data, err := json.Marshal(out)
		if err != nil {
			return "", fmt.Errorf("encode output: %w", err)
		}

		return string(data), nil
	}
}

// inputSchema generates an inline JSON schema for the struct type.
func inputSchema(structType reflect.Type) (map[string]any, error) {
	r := jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	schema := r.ReflectFromType(structType)

	data, err := schema.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	// Vertex AI function declarations take bare OpenAPI-style schemas.
	delete(out, "$schema")
	delete(out, "additionalProperties")

	return out, nil
}
