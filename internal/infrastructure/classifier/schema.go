package classifier

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/artifact.schema.json
var artifactSchemaJSON []byte

const artifactSchemaURL = "schema://adaboost-pipeline.json"

var (
	artifactSchemaOnce sync.Once
	artifactSchema     *jsonschema.Schema
	artifactSchemaErr  error
)

// compiledArtifactSchema compiles the embedded schema once per process.
func compiledArtifactSchema() (*jsonschema.Schema, error) {
	artifactSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(artifactSchemaJSON))
		if err != nil {
			artifactSchemaErr = fmt.Errorf("parse artifact schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(artifactSchemaURL, doc); err != nil {
			artifactSchemaErr = fmt.Errorf("add artifact schema: %w", err)
			return
		}
		artifactSchema, artifactSchemaErr = c.Compile(artifactSchemaURL)
	})
	return artifactSchema, artifactSchemaErr
}

// validateArtifactDocument checks raw artifact JSON against the embedded schema.
func validateArtifactDocument(raw []byte) error {
	schema, err := compiledArtifactSchema()
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
