// internal/rules/fixtures_test.go
package rules

import (
	"encoding/json"
	"testing"

	"github.com/metadatalab/revisor/internal/schema"
)

// doc decodes a JSON object literal into a record tree.
// Keeping fixtures as JSON mirrors the wire format records arrive in and
// sidesteps the int/float64 mismatch of hand-built maps.
func doc(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	return m
}

// literatureSchema resolves the embedded literature schema used by most
// schema-aware fixtures.
func literatureSchema(t *testing.T) *schema.Node {
	t.Helper()
	node, err := schema.NewRegistry().Resolve("literature")
	if err != nil {
		t.Fatalf("Resolve(literature) error = %v, want nil", err)
	}
	return node
}

// nestedSchema is a two-level object schema with a string array leaf,
// shared by addition and synthesis cases.
func nestedSchema() *schema.Node {
	return &schema.Node{
		Type: "object",
		Properties: map[string]*schema.Node{
			"key_a": {
				Type: "object",
				Properties: map[string]*schema.Node{
					"key_b": {
						Type:  "array",
						Items: &schema.Node{Type: "string"},
					},
					"key_c": {Type: "string"},
				},
			},
		},
	}
}
