// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package worldfile

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id of the generated schema.
const SchemaID = "https://tilemud.dev/schemas/world.schema.json"

var compiledSchema = sync.OnceValues(compileSchema)

// GenerateSchema generates a JSON Schema from the File struct.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
		FieldNameTag:   "yaml",
	}
	schema := r.Reflect(&File{})

	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "TileMUD World File"
	schema.Description = "Schema for world.yaml files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.In("worldfile").Wrapf(err, "marshal schema")
	}
	return data, nil
}

// ValidateSchema validates YAML data against the world file JSON Schema.
func ValidateSchema(data []byte) error {
	if len(data) == 0 {
		return oops.In("worldfile").Code(CodeInvalid).Errorf("world file is empty")
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return oops.In("worldfile").Code(CodeInvalid).Wrapf(err, "invalid YAML")
	}

	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(toJSONTypes(doc)); err != nil {
		return oops.In("worldfile").Code(CodeInvalid).Wrapf(err, "schema validation failed")
	}
	return nil
}

func compileSchema() (*jschema.Schema, error) {
	raw, err := GenerateSchema()
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, oops.In("worldfile").Wrapf(err, "parse schema JSON")
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("world.schema.json", doc); err != nil {
		return nil, oops.In("worldfile").Wrapf(err, "add schema resource")
	}
	sch, err := c.Compile("world.schema.json")
	if err != nil {
		return nil, oops.In("worldfile").Wrapf(err, "compile schema")
	}
	return sch, nil
}

// toJSONTypes rewrites what yaml.v3 decodes into the value types the
// validator understands.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = toJSONTypes(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			key, _ := k.(string)
			out[key] = toJSONTypes(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toJSONTypes(item)
		}
		return out
	case string, int, int64, float64, bool, nil:
		return val
	default:
		if b, err := json.Marshal(val); err == nil {
			var out any
			if err := json.Unmarshal(b, &out); err == nil {
				return out
			}
		}
		return val
	}
}

// FormatSchemaError strips wrapping from a validation error for display.
func FormatSchemaError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.Index(msg, "schema validation failed: "); i >= 0 {
		msg = msg[i+len("schema validation failed: "):]
	}
	return msg
}
