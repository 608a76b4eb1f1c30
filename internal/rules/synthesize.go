// internal/rules/synthesize.go
package rules

import (
	"fmt"

	"github.com/metadatalab/revisor/internal/schema"
	"github.com/metadatalab/revisor/internal/types"
)

/*
 * Schema-guided structure synthesis.
 *
 * When an addition targets a path whose head key is missing from the
 * record, the engine builds the minimal skeleton the schema prescribes
 * for the remaining path and grafts it onto the record. Object nodes
 * become nested containers; array nodes at the final segment wrap the
 * value in a single-element array; array-of-object nodes mid-path become
 * a single-element array holding one fresh object to descend into.
 *
 * Without a schema the engine assumes plain nested objects with the raw
 * value at the leaf, which is what unit fixtures and schemaless CLI runs
 * rely on. A present schema that cannot express the path is a caller
 * contract violation and surfaces as ErrSchemaMismatch.
 */

// Synthesize builds the minimal record fragment for path under the given
// schema node, placing value at the leaf.
//
// The node corresponds to the container the fragment will be merged into:
// an object node's properties, or an array node's element properties when
// the container is an array element. Empty nodes select the schemaless
// fallback.
func Synthesize(node *schema.Node, path types.Path, value any) (map[string]any, error) {
	record := map[string]any{}
	if len(path) == 0 {
		return record, nil
	}
	if node.IsEmpty() {
		return flatChain(path, value), nil
	}

	props, err := entryProperties(node)
	if err != nil {
		return nil, err
	}

	cur := record
	for i, key := range path {
		child, ok := props[key]
		if !ok {
			return nil, fmt.Errorf("schema has no property %q: %w", key, types.ErrSchemaMismatch)
		}
		last := i == len(path)-1

		switch {
		case child.IsObject():
			if child.Properties == nil {
				return nil, fmt.Errorf("object schema at %q declares no properties: %w", key, types.ErrSchemaMismatch)
			}
			props = child.Properties
			next := map[string]any{}
			cur[key] = next
			cur = next

		case child.IsArray():
			if last {
				cur[key] = []any{value}
				return record, nil
			}
			if child.Items == nil || !child.Items.IsObject() || child.Items.Properties == nil {
				return nil, fmt.Errorf("cannot nest inside array of scalars at %q: %w", key, types.ErrSchemaMismatch)
			}
			props = child.Items.Properties
			next := map[string]any{}
			cur[key] = []any{next}
			cur = next

		default:
			// scalar leaf: nothing to open, the final assignment covers it
			if !last {
				return nil, fmt.Errorf("scalar schema at %q but path continues: %w", key, types.ErrSchemaMismatch)
			}
		}
	}

	cur[path.Last()] = value
	return record, nil
}

// entryProperties resolves the property map synthesis starts from: the
// node's own properties for objects, the element properties for arrays
// (the record-side container is then an array element).
func entryProperties(node *schema.Node) (map[string]*schema.Node, error) {
	switch {
	case node.IsArray():
		if node.Items == nil || node.Items.Properties == nil {
			return nil, fmt.Errorf("array schema items declare no properties: %w", types.ErrSchemaMismatch)
		}
		return node.Items.Properties, nil
	case node.IsObject():
		if node.Properties == nil {
			return nil, fmt.Errorf("object schema declares no properties: %w", types.ErrSchemaMismatch)
		}
		return node.Properties, nil
	default:
		return nil, fmt.Errorf("cannot synthesize under scalar schema: %w", types.ErrSchemaMismatch)
	}
}

// flatChain builds nested plain objects for every segment with the value
// at the leaf, for schemaless application.
func flatChain(path types.Path, value any) map[string]any {
	record := map[string]any{}
	cur := record
	for _, key := range path[:len(path)-1] {
		next := map[string]any{}
		cur[key] = next
		cur = next
	}
	cur[path.Last()] = value
	return record
}
