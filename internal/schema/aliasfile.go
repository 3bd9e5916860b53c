package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/sales-tracker/constants"
)

// AliasFile is the on-disk form of an alias override:
//
//	{"fields": {"customer": ["client", "cuenta"], "volume": ["kwh"]}}
type AliasFile struct {
	Fields map[string][]string `json:"fields"`
}

// BuildAliasFileSchema returns the JSON-Schema an alias file must satisfy.
func BuildAliasFileSchema() map[string]any {
	names := make([]string, 0, len(constants.AllFields()))
	for _, f := range constants.AllFields() {
		names = append(names, string(f))
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"fields"},
		"properties": map[string]any{
			"fields": map[string]any{
				"type":          "object",
				"minProperties": 1,
				"propertyNames": map[string]any{"enum": names},
				"additionalProperties": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items":    map[string]any{"type": "string", "minLength": 1},
				},
			},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	sch, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// ParseAliasFile validates raw JSON and merges it over the default table.
func ParseAliasFile(data []byte) (*AliasTable, error) {
	if err := ValidateJSONAgainstSchema(BuildAliasFileSchema(), data); err != nil {
		return nil, fmt.Errorf("alias file: %w", err)
	}
	var af AliasFile
	if err := json.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("alias file: %w", err)
	}
	override := make(map[constants.Field][]string, len(af.Fields))
	for name, aliases := range af.Fields {
		f, ok := constants.ParseField(name)
		if !ok {
			return nil, fmt.Errorf("alias file: unknown field %q", name)
		}
		override[f] = aliases
	}
	return DefaultAliasTable().Merge(override)
}

// LoadAliasFile reads a JSON or YAML (.yaml, .yml) alias file from disk.
// An empty path yields the default table.
func LoadAliasFile(path string) (*AliasTable, error) {
	if path == "" {
		return DefaultAliasTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if data, err = yamlToJSON(data); err != nil {
			return nil, fmt.Errorf("alias file: %w", err)
		}
	}
	return ParseAliasFile(data)
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return json.Marshal(v)
}
