// internal/rules/condition.go
package rules

import (
	"github.com/metadatalab/revisor/internal/types"
)

/*
 * Condition evaluation over record trees.
 *
 * A condition holds on a record when its path resolves, anywhere beneath
 * the starting container, to a value matching the predicate. Arrays fan
 * out existentially at interior and final segments alike: one matching
 * element satisfies the condition (ANY semantics, same as the final-step
 * array check). Absent or falsy keys satisfy only the missing predicate.
 *
 * HoldsFrom starts mid-path because the action walker settles conditions
 * at the depth where a condition's path diverges from the action's path;
 * both paths have already descended their shared prefix by then, so the
 * condition continues from the action's current container.
 *
 * Non-object elements under interior segments and scalars where the path
 * continues simply don't match; evaluation never errors on record shape.
 */

// Condition is one compiled condition: a parsed path, a predicate and the
// value to test against.
type Condition struct {
	Path  types.Path
	Kind  MatchKind
	Value any
}

// Holds reports whether the condition is satisfied starting at the record
// root.
func (c *Condition) Holds(record map[string]any) bool {
	return c.HoldsFrom(record, 0)
}

// HoldsFrom reports whether the condition is satisfied against the
// sub-record at depth pos of the condition path.
func (c *Condition) HoldsFrom(record map[string]any, pos int) bool {
	if pos >= len(c.Path) {
		return false
	}
	key := c.Path[pos]

	if absent(record, key) {
		return c.Kind == MatchMissing
	}
	value := record[key]
	last := pos == len(c.Path)-1

	if arr, ok := value.([]any); ok {
		if last {
			for _, elem := range arr {
				if c.Kind.matches(elem, c.Value) {
					return true
				}
			}
			return false
		}
		for _, elem := range arr {
			if obj, ok := elem.(map[string]any); ok && c.HoldsFrom(obj, pos+1) {
				return true
			}
		}
		return false
	}

	if last {
		return c.Kind.matches(value, c.Value)
	}
	if obj, ok := value.(map[string]any); ok {
		return c.HoldsFrom(obj, pos+1)
	}
	return false
}
