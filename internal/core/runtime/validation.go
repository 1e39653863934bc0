package runtime

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/pagewright/pagewright/internal/core/schema"
)

var (
	classificationLoader gojsonschema.JSONLoader
	operationsLoader     gojsonschema.JSONLoader
	loadSchemasOnce      sync.Once
)

type schemaValidationError struct {
	issues []string
}

func (e schemaValidationError) Error() string {
	if len(e.issues) == 0 {
		return "payload failed schema validation"
	}
	return strings.Join(e.issues, "; ")
}

func loadSchemas() {
	loadSchemasOnce.Do(func() {
		classificationLoader = gojsonschema.NewGoLoader(schema.ClassificationSchema())
		operationsLoader = gojsonschema.NewGoLoader(schema.OperationsSchema())
	})
}

// validateClassification checks a raw classifier reply against its schema
// before the runtime trusts the routing decision.
func validateClassification(raw string) error {
	loadSchemas()
	return validateAgainst(classificationLoader, raw)
}

// validateOperations checks a raw INCREMENTAL_OPERATIONS payload against the
// operations schema before it is decoded into edit operations.
func validateOperations(raw string) error {
	loadSchemas()
	return validateAgainst(operationsLoader, raw)
}

func validateAgainst(loader gojsonschema.JSONLoader, raw string) error {
	result, err := gojsonschema.Validate(loader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return schemaValidationError{issues: issues}
}
