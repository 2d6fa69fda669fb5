package openapi

import "strings"

// DefaultVersion is the OpenAPI version written when none is configured.
const DefaultVersion = "3.0.3"

type generatorConfig struct {
	version     string
	title       string
	apiVersion  string
	description string
	path        string
	method      string
	operationID string
	summary     string
	responses   map[string]string
	paramDocs   map[string]string
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		version:     DefaultVersion,
		title:       "Query State",
		apiVersion:  "1.0.0",
		path:        "/",
		method:      "get",
		operationID: "get:/",
		responses:   map[string]string{"200": "OK"},
	}
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*generatorConfig)

// WithOpenAPIVersion overrides DefaultVersion. Empty keeps the default.
func WithOpenAPIVersion(version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if version != "" {
			cfg.version = version
		}
	}
}

// InfoOption adds optional fields to the info block.
type InfoOption func(*generatorConfig)

func WithInfoDescription(description string) InfoOption {
	return func(cfg *generatorConfig) {
		cfg.description = description
	}
}

// WithInfo sets the info title and version. Empty strings keep the current
// values.
func WithInfo(title, version string, opts ...InfoOption) GeneratorOption {
	return func(cfg *generatorConfig) {
		if title != "" {
			cfg.title = title
		}
		if version != "" {
			cfg.apiVersion = version
		}
		for _, opt := range opts {
			if opt != nil {
				opt(cfg)
			}
		}
	}
}

// OperationOption adds optional fields to the operation.
type OperationOption func(*generatorConfig)

func WithOperationSummary(summary string) OperationOption {
	return func(cfg *generatorConfig) {
		cfg.summary = summary
	}
}

// WithOperation names the listing endpoint that reads the query state.
func WithOperation(path, method, operationID string, opts ...OperationOption) GeneratorOption {
	return func(cfg *generatorConfig) {
		if path != "" {
			cfg.path = path
		}
		if method != "" {
			cfg.method = strings.ToLower(method)
		}
		if operationID != "" {
			cfg.operationID = operationID
		}
		for _, opt := range opts {
			if opt != nil {
				opt(cfg)
			}
		}
	}
}

// WithResponse adds or replaces the description of a response status.
func WithResponse(status, description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if status == "" {
			return
		}
		if cfg.responses == nil {
			cfg.responses = map[string]string{}
		}
		cfg.responses[status] = description
	}
}

// WithParameterDescription documents one query key, e.g. "priceMin".
func WithParameterDescription(key, description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		key = strings.TrimSpace(key)
		if key == "" {
			return
		}
		if cfg.paramDocs == nil {
			cfg.paramDocs = map[string]string{}
		}
		cfg.paramDocs[key] = description
	}
}
