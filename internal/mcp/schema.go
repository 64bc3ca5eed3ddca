package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// WithArray adds an array property to the tool schema.
func WithArray(name string, opts ...mcp.PropertyOption) mcp.ToolOption {
	return withType("array", name, opts...)
}

// WithObject adds an object property to the tool schema.
func WithObject(name string, opts ...mcp.PropertyOption) mcp.ToolOption {
	return withType("object", name, opts...)
}

func withType(typeName, name string, opts ...mcp.PropertyOption) mcp.ToolOption {
	return func(t *mcp.Tool) {
		schema := map[string]any{
			"type": typeName,
		}

		for _, opt := range opts {
			opt(schema)
		}

		// Required moves from the property schema to InputSchema.required.
		if required, ok := schema["required"].(bool); ok && required {
			delete(schema, "required")
			if t.InputSchema.Required == nil {
				t.InputSchema.Required = []string{name}
			} else {
				t.InputSchema.Required = append(t.InputSchema.Required, name)
			}
		}

		t.InputSchema.Properties[name] = schema
	}
}
