package formatter

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

//go:embed schema/detailed.schema.json
var detailedSchemaJSON []byte

var compileDetailedSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.NewCompiler().Compile(detailedSchemaJSON)
})

// ValidateDetailed checks a detailed JSON document against the embedded schema.
func ValidateDetailed(doc []byte) error {
	schema, err := compileDetailedSchema()
	if err != nil {
		return fmt.Errorf("compile detailed schema: %w", err)
	}

	if !json.Valid(doc) {
		return fmt.Errorf("detailed dataset is not valid JSON")
	}

	result := schema.ValidateJSON(doc)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}
