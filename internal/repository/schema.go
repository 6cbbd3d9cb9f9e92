package repository

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// matchDetailsSchema is the contract for get_match_details() output.
var matchDetailsSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"required": []any{
			"bank_transaction_id", "bank_date", "bank_amount", "matched_table",
			"matched_date", "matched_amount",
		},
		"properties": map[string]any{
			"bank_transaction_id": map[string]any{"type": "string"},
			"bank_date":           map[string]any{"type": "string"},
			"bank_amount":         map[string]any{"type": []any{"number", "string"}},
			"bank_description":    map[string]any{"type": []any{"string", "null"}},
			"matched_table":       map[string]any{"type": "string"},
			"matched_date":        map[string]any{"type": "string"},
			"matched_amount":      map[string]any{"type": []any{"number", "string"}},
			"matched_reference":   map[string]any{"type": []any{"string", "null"}},
		},
	},
}

// validateJSONAgainstSchema validates "data" against "schemaMap".
func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
