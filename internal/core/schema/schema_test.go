package schema

import "testing"

func TestClassificationSchemaRequiresReasoning(t *testing.T) {
	t.Parallel()

	schemaMap := ClassificationSchema()

	required, ok := schemaMap["required"].([]any)
	if !ok {
		t.Fatalf("expected required list to be present")
	}

	var reasoningRequired bool
	for _, value := range required {
		if str, _ := value.(string); str == "reasoning" {
			reasoningRequired = true
			break
		}
	}
	if !reasoningRequired {
		t.Fatalf("expected reasoning to be marked as required")
	}

	properties, ok := schemaMap["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected schema properties to be present")
	}
	value, ok := properties["reasoning"].(map[string]any)
	if !ok {
		t.Fatalf("expected reasoning property to be defined")
	}
	if typ, _ := value["type"].(string); typ != "string" {
		t.Fatalf("expected reasoning to be a string, got %q", typ)
	}
}

func TestOperationsSchemaListsAllKinds(t *testing.T) {
	t.Parallel()

	schemaMap := OperationsSchema()
	items, ok := schemaMap["items"].(map[string]any)
	if !ok {
		t.Fatalf("expected items schema to be present")
	}
	properties, ok := items["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected item properties to be present")
	}
	operation, ok := properties["operation"].(map[string]any)
	if !ok {
		t.Fatalf("expected operation property to be defined")
	}
	enum, ok := operation["enum"].([]any)
	if !ok || len(enum) != 5 {
		t.Fatalf("expected five operation kinds, got %v", operation["enum"])
	}
}
