// Package openapi describes the query parameters of a codec.Schema as an
// OpenAPI document.
package openapi

import (
	"fmt"

	"github.com/goliatone/go-querystate/codec"
)

// Generator renders schemas into OpenAPI documents.
type Generator struct {
	config generatorConfig
}

// NewGenerator constructs a generator with the provided options.
func NewGenerator(opts ...GeneratorOption) Generator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return Generator{config: cfg}
}

// Generate builds a document with one operation whose query parameters are
// the keys of schema, sorted by name.
func (g Generator) Generate(schema codec.Schema) (map[string]any, error) {
	params, err := Parameters(schema)
	if err != nil {
		return nil, err
	}
	for _, param := range params {
		if doc, ok := g.config.paramDocs[param["name"].(string)]; ok && doc != "" {
			param["description"] = doc
		}
	}

	operation := map[string]any{
		"operationId": g.config.operationID,
		"parameters":  params,
		"responses":   g.buildResponses(),
	}
	if g.config.summary != "" {
		operation["summary"] = g.config.summary
	}

	info := map[string]any{
		"title":   g.config.title,
		"version": g.config.apiVersion,
	}
	if g.config.description != "" {
		info["description"] = g.config.description
	}

	return map[string]any{
		"openapi": g.config.version,
		"info":    info,
		"paths": map[string]any{
			g.config.path: map[string]any{
				g.config.method: operation,
			},
		},
	}, nil
}

func (g Generator) buildResponses() map[string]any {
	out := make(map[string]any, len(g.config.responses))
	for status, description := range g.config.responses {
		out[status] = map[string]any{"description": description}
	}
	return out
}

// Parameters describes every key of schema as an "in: query" parameter.
func Parameters(schema codec.Schema) ([]map[string]any, error) {
	keys := schema.Keys()
	out := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		field := schema[key]
		if field == nil {
			return nil, fmt.Errorf("openapi: key %q has no field", key)
		}
		param, err := parameter(key, field.Descriptor())
		if err != nil {
			return nil, err
		}
		out = append(out, param)
	}
	return out, nil
}

func parameter(key string, d codec.Descriptor) (map[string]any, error) {
	item, err := itemSchema(d)
	if err != nil {
		return nil, fmt.Errorf("openapi: key %q: %w", key, err)
	}

	param := map[string]any{
		"name":     key,
		"in":       "query",
		"required": false,
	}
	schema := item
	if d.Repeated {
		schema = map[string]any{"type": "array", "items": item}
		switch d.Delimiter {
		case "":
			param["style"], param["explode"] = "form", true
		case ",":
			param["style"], param["explode"] = "form", false
		case " ":
			param["style"], param["explode"] = "spaceDelimited", false
		case "|":
			param["style"], param["explode"] = "pipeDelimited", false
		default:
			param["style"], param["explode"] = "form", false
			param["x-delimiter"] = d.Delimiter
		}
	}
	if d.Nullable {
		schema["nullable"] = true
	}
	if d.Default != nil {
		schema["default"] = d.Default
	}
	param["schema"] = schema
	return param, nil
}

func itemSchema(d codec.Descriptor) (map[string]any, error) {
	var schema map[string]any
	switch d.Type {
	case "string", "enum", "sort":
		schema = map[string]any{"type": "string"}
	case "integer":
		schema = map[string]any{"type": "integer"}
	case "float":
		schema = map[string]any{"type": "number"}
	case "boolean":
		schema = map[string]any{"type": "boolean"}
	default:
		return nil, fmt.Errorf("unsupported codec type %q", d.Type)
	}
	if len(d.Enum) > 0 {
		schema["enum"] = append([]string(nil), d.Enum...)
	}
	return schema, nil
}
