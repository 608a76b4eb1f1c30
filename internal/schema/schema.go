// internal/schema/schema.go
package schema

import (
	"fmt"
	"strings"

	"github.com/metadatalab/revisor/internal/types"
)

/*
 * Node model for record schemas.
 *
 * Schemas are a JSON Schema subset: object nodes with properties, array
 * nodes with items, and scalar leaves identified by their type word. The
 * engine walks Node trees in lockstep with record trees to decide what
 * structure to synthesize; the store walks them to shape-check mutated
 * records before commit.
 *
 * Anything beyond type/properties/items (formats, patterns, required) is
 * intentionally ignored: full document validation is not this service's
 * job.
 */

// Node is one schema tree node. Exactly one of the three shapes applies:
// object (Properties set), array (Items set), or scalar (neither).
type Node struct {
	Type       string           `json:"type" yaml:"type"`
	Properties map[string]*Node `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items      *Node            `json:"items,omitempty" yaml:"items,omitempty"`
}

// IsEmpty reports whether the node carries no schema information at all:
// nil, or a zero document. Walkers treat empty nodes as schemaless mode.
func (n *Node) IsEmpty() bool {
	return n == nil || (n.Type == "" && n.Properties == nil && n.Items == nil)
}

// IsObject reports whether the node declares an object.
func (n *Node) IsObject() bool {
	return n != nil && n.Type == "object"
}

// IsArray reports whether the node declares an array.
func (n *Node) IsArray() bool {
	return n != nil && n.Type == "array"
}

// Child resolves the schema node for key one level below n. Object nodes
// look the key up in their properties, array nodes in their element
// properties. A present schema that does not declare the key is a contract
// violation (ErrSchemaMismatch); descending below a scalar node yields no
// schema at all, which callers treat as schemaless traversal.
func (n *Node) Child(key string) (*Node, error) {
	switch {
	case n.IsObject():
		child, ok := n.Properties[key]
		if !ok {
			return nil, fmt.Errorf("object schema has no property %q: %w", key, types.ErrSchemaMismatch)
		}
		return child, nil
	case n.IsArray():
		if n.Items == nil || n.Items.Properties == nil {
			return nil, fmt.Errorf("array schema items declare no properties for %q: %w", key, types.ErrSchemaMismatch)
		}
		child, ok := n.Items.Properties[key]
		if !ok {
			return nil, fmt.Errorf("array item schema has no property %q: %w", key, types.ErrSchemaMismatch)
		}
		return child, nil
	default:
		return nil, nil
	}
}

// Shape checks that value structurally conforms to node: containers match
// the declared container class, object keys are declared, array elements
// conform to the item schema. Scalar leaves only need to not be containers;
// exact scalar typing is left to downstream systems. A nil node accepts
// anything.
func Shape(value any, node *Node) error {
	return shapeAt("", value, node)
}

func shapeAt(at string, value any, node *Node) error {
	if node == nil {
		return nil
	}
	switch {
	case node.IsObject():
		obj, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object, got %T", loc(at), value)
		}
		for key, v := range obj {
			child, ok := node.Properties[key]
			if !ok {
				return fmt.Errorf("%s: undeclared key %q", loc(at), key)
			}
			if err := shapeAt(at+"/"+key, v, child); err != nil {
				return err
			}
		}
		return nil
	case node.IsArray():
		arr, ok := value.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array, got %T", loc(at), value)
		}
		for i, elem := range arr {
			if err := shapeAt(fmt.Sprintf("%s[%d]", at, i), elem, node.Items); err != nil {
				return err
			}
		}
		return nil
	default:
		switch value.(type) {
		case map[string]any:
			return fmt.Errorf("%s: expected %s, got object", loc(at), node.Type)
		case []any:
			return fmt.Errorf("%s: expected %s, got array", loc(at), node.Type)
		}
		return nil
	}
}

// loc renders a record location for error messages; the root has no path.
func loc(at string) string {
	if at == "" {
		return "record"
	}
	return strings.TrimPrefix(at, "/")
}
