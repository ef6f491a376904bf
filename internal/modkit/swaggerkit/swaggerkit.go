// Package swaggerkit builds an OpenAPI 3 document from module operations and mounts Swagger UI
package swaggerkit

import (
	"net/http"
	"sort"
	"strings"
)

// Operation describes one endpoint for the generated document
type Operation struct {
	Method  string // GET, POST
	Path    string // relative to the API root, chi style params: /zipcheck/check/{zip}
	Summary string
	Tag     string

	// Body is "", "json" or "multipart"
	Body string
	// Fields lists request fields: json properties or multipart form fields
	Fields []Field

	// Produces defaults to application/json; set text/csv for downloads
	Produces string
}

// Field is a request field
type Field struct {
	Name     string
	Type     string // string, integer, binary
	Required bool
	Example  string
}

// Documented is implemented by modules that publish operations
type Documented interface {
	Operations() []Operation
}

// Info is the document header
type Info struct {
	Title   string
	Version string
	Server  string // base url, e.g. /api/v1
}

// Collect gathers operations from every module that implements Documented
func Collect(mods ...any) []Operation {
	var out []Operation
	for _, m := range mods {
		if d, ok := m.(Documented); ok {
			out = append(out, d.Operations()...)
		}
	}
	return out
}

// Document renders the OAS3 map for ops
func Document(info Info, ops []Operation) map[string]any {
	paths := map[string]any{}
	sort.SliceStable(ops, func(i, j int) bool { return ops[i].Path < ops[j].Path })
	for _, op := range ops {
		node, _ := paths[op.Path].(map[string]any)
		if node == nil {
			node = map[string]any{}
			paths[op.Path] = node
		}
		node[strings.ToLower(op.Method)] = operation(op)
	}

	doc := map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": info.Title, "version": info.Version},
		"paths":   paths,
	}
	if info.Server != "" {
		doc["servers"] = []any{map[string]any{"url": info.Server}}
	}
	ensureErrorResponseDefinition(doc)
	addDefaultError(doc)
	addDefaultBadRequest(doc)
	return doc
}

func operation(op Operation) map[string]any {
	produces := op.Produces
	if produces == "" {
		produces = "application/json"
	}
	out := map[string]any{
		"summary": op.Summary,
		"responses": map[string]any{
			"200": map[string]any{
				"description": "OK",
				"content":     map[string]any{produces: map[string]any{"schema": okSchema(produces)}},
			},
		},
	}
	if op.Tag != "" {
		out["tags"] = []any{op.Tag}
	}

	var params []any
	for _, seg := range strings.Split(op.Path, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			params = append(params, map[string]any{
				"name":     strings.Trim(seg, "{}"),
				"in":       "path",
				"required": true,
				"schema":   map[string]any{"type": "string"},
			})
		}
	}
	if len(params) > 0 {
		out["parameters"] = params
	}

	switch op.Body {
	case "json":
		out["requestBody"] = requestBody("application/json", op.Fields)
	case "multipart":
		out["requestBody"] = requestBody("multipart/form-data", op.Fields)
	}
	return out
}

func requestBody(contentType string, fields []Field) map[string]any {
	props := map[string]any{}
	var required []any
	for _, f := range fields {
		s := map[string]any{"type": "string"}
		switch f.Type {
		case "integer":
			s["type"] = "integer"
		case "binary":
			s["format"] = "binary"
		}
		if f.Example != "" {
			s["example"] = f.Example
		}
		props[f.Name] = s
		if f.Required {
			required = append(required, f.Name)
		}
	}
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return map[string]any{
		"required": true,
		"content":  map[string]any{contentType: map[string]any{"schema": schema}},
	}
}

func okSchema(produces string) map[string]any {
	if produces != "application/json" {
		return map[string]any{"type": "string", "format": "binary"}
	}
	return map[string]any{"$ref": "#/components/schemas/Envelope"}
}

// ensureErrorResponseDefinition adds the envelope models, kept minimal so they
// do not drift from the runtime wire
func ensureErrorResponseDefinition(doc map[string]any) {
	comps, ok := doc["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		doc["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	schemas["Envelope"] = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
			"warnings":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"data":        map[string]any{"type": "object"},
		},
		"required": []any{"status_code", "status"},
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

func errorResponse(description string, example map[string]any) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
}

// eachResponses calls fn with every operation's responses map
func eachResponses(doc map[string]any, fn func(map[string]any)) {
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			fn(responses)
		}
	}
}

// addDefaultError injects a 500 response where absent
func addDefaultError(doc map[string]any) {
	resp := errorResponse("Internal Server Error", map[string]any{
		"status_code": 500,
		"status":      "Internal Server Error",
		"code":        1,
		"error":       "panic recovered",
		"request_id":  "pfas-host/abc-000001",
	})
	eachResponses(doc, func(r map[string]any) {
		if _, exists := r["500"]; !exists {
			r["500"] = resp
		}
	})
}

// addDefaultBadRequest injects a 400 with the binder's wording where absent
func addDefaultBadRequest(doc map[string]any) {
	resp := errorResponse("Bad Request", map[string]any{
		"status_code": 400,
		"status":      "Bad Request",
		"code":        4,
		"error":       "zip_code must contain only digits",
		"field":       "zip_code",
		"request_id":  "pfas-host/abc-000001",
	})
	eachResponses(doc, func(r map[string]any) {
		if _, exists := r["400"]; !exists {
			r["400"] = resp
		}
	})
}

func serveDocJSON(doc []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(doc)
	}
}
