package planfile

import (
	_ "embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed floorplan.schema.json
var schemaSource string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func loadSchema() {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("floorplan.schema.json", strings.NewReader(schemaSource)); err != nil {
		schemaErr = err
		return
	}
	schema, schemaErr = c.Compile("floorplan.schema.json")
}

// ValidateDocument checks raw JSON against the floorplan document
// schema. Shape only; structural graph invariants are ParseJSON's job.
func ValidateDocument(data []byte) error {
	schemaOnce.Do(loadSchema)
	if schemaErr != nil {
		return schemaErr
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}
