// internal/rules/action.go
package rules

import (
	"fmt"

	"dario.cat/mergo"

	"github.com/metadatalab/revisor/internal/schema"
	"github.com/metadatalab/revisor/internal/types"
)

/*
 * Bulk-edit actions over record trees.
 *
 * Addition, Deletion and Update share one recursive traversal driven by
 * (record, schema node, path position, conditions satisfied so far). Each
 * frame settles the conditions due at its depth, then handles the missing
 * key case, then either performs its leaf mutation or fans out across
 * array elements and descends.
 *
 * Condition coupling: a condition is evaluated exactly once per branch,
 * at the first depth where its path diverges from the action's path, or
 * where it terminates on the action's own key. A failed condition aborts
 * the branch outright; a passed one increments the branch's satisfied
 * count. Array fan-out hands each element its own copy of the count, so
 * sibling branches settle conditions independently.
 *
 * Missing keys: only Addition reacts, and only when every declared
 * condition was satisfied on the way down; it synthesizes the remaining
 * path from the schema and grafts the fragment onto the record. Deletion
 * and Update treat missing (or falsy) keys as a no-op, as they do any
 * record shape the path cannot descend; only schema inconsistencies
 * surface as errors.
 *
 * Deletion cleanup: after the leaf filter or the recursive step, the
 * frame drops empty sentinels ({}, "", []) from the array at its key and
 * deletes the key when its value became such a sentinel itself. One level
 * per frame, so emptiness cascades upward exactly as far as it reaches.
 */

// ActionKind discriminates the three mutation kinds.
type ActionKind int

const (
	ActionUnspecified ActionKind = iota
	ActionAddition
	ActionDeletion
	ActionUpdate
)

// ParseActionKind maps wire-format action names to ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	switch s {
	case "Addition":
		return ActionAddition, nil
	case "Deletion":
		return ActionDeletion, nil
	case "Update":
		return ActionUpdate, nil
	default:
		return ActionUnspecified, fmt.Errorf("%q: %w", s, types.ErrUnknownActionName)
	}
}

// Action is one compiled mutation: a target path, the mutation kind, its
// values and the rule set's shared conditions.
type Action struct {
	Kind       ActionKind
	Path       types.Path
	Conditions []Condition
	Value      any // value to append (Addition) or substitute (Update)
	CheckValue any // value matched by Deletion and Update leaves
	Match      MatchKind

	// changed records whether the last application mutated its record.
	// Per-application state: an Action must not be applied concurrently.
	changed bool
}

// Apply runs the action against one record, resetting and then reporting
// the changed flag. The schema node may be empty for schemaless
// application. Errors mean the path is inconsistent with the schema; the
// record may be partially mutated at that point.
func (a *Action) Apply(record map[string]any, node *schema.Node) (bool, error) {
	a.changed = false
	err := a.apply(record, node, 0, 0)
	return a.changed, err
}

// apply is one traversal frame: the action path at depth pos inside
// record, with satisfied conditions settled so far on this branch.
func (a *Action) apply(record map[string]any, node *schema.Node, pos, satisfied int) error {
	key := a.Path[pos]

	var child *schema.Node
	if !node.IsEmpty() {
		c, err := node.Child(key)
		if err != nil {
			return err
		}
		child = c
	}

	satisfied, ok := a.settleConditions(record, pos, satisfied)
	if !ok {
		return nil
	}

	if absent(record, key) {
		if a.Kind != ActionAddition {
			return nil
		}
		if len(a.Conditions) > 0 && satisfied < len(a.Conditions) {
			return nil
		}
		created, err := Synthesize(node, a.Path[pos:], a.Value)
		if err != nil {
			return err
		}
		if err := mergo.Merge(&record, created, mergo.WithOverride); err != nil {
			return fmt.Errorf("grafting synthesized structure: %w", err)
		}
		a.changed = true
		return nil
	}

	if pos == len(a.Path)-1 {
		switch a.Kind {
		case ActionAddition:
			a.appendLeaf(record, key)
		case ActionDeletion:
			a.deleteLeaf(record, key)
		case ActionUpdate:
			a.updateLeaf(record, key)
		}
		return nil
	}

	// The next depth resolves its schema before it looks at the record,
	// so a child that cannot host the next key is a schema inconsistency
	// even when no record element is there to descend into.
	if !child.IsEmpty() {
		if _, err := child.Child(a.Path[pos+1]); err != nil {
			return err
		}
	}

	switch value := record[key].(type) {
	case []any:
		for _, elem := range value {
			obj, ok := elem.(map[string]any)
			if !ok {
				continue
			}
			if err := a.apply(obj, child, pos+1, satisfied); err != nil {
				return err
			}
		}
	case map[string]any:
		if err := a.apply(value, child, pos+1, satisfied); err != nil {
			return err
		}
	}

	if a.Kind == ActionDeletion {
		prune(record, key)
	}
	return nil
}

// settleConditions evaluates every condition due at this depth: those
// whose path diverges from the action's path here for the first time, and
// those terminating exactly on the action's current key. Returns the
// updated satisfied count and false when any due condition failed.
func (a *Action) settleConditions(record map[string]any, pos, satisfied int) (int, bool) {
	for i := range a.Conditions {
		cond := &a.Conditions[i]
		if pos >= len(cond.Path) {
			continue
		}
		diverged := cond.Path[pos] != a.Path[pos] &&
			(pos == 0 || cond.Path[pos-1] == a.Path[pos-1])
		terminal := cond.Path[pos] == a.Path[pos] && pos == len(cond.Path)-1
		if !diverged && !terminal {
			continue
		}
		if !cond.HoldsFrom(record, pos) {
			return satisfied, false
		}
		satisfied++
	}
	return satisfied, true
}

// appendLeaf appends the value when the leaf is an array. Scalar and
// object leaves are left alone: addition never overwrites present values.
func (a *Action) appendLeaf(record map[string]any, key string) {
	if arr, ok := record[key].([]any); ok {
		record[key] = append(arr, a.Value)
		a.changed = true
	}
}

// deleteLeaf removes matching array elements, or the key itself for a
// matching scalar. Scalar removal skips this frame's pruning: the key is
// already gone, and the parent frame prunes the enclosing container.
func (a *Action) deleteLeaf(record map[string]any, key string) {
	if arr, ok := record[key].([]any); ok {
		kept := make([]any, 0, len(arr))
		for _, elem := range arr {
			if a.Match.matches(elem, a.CheckValue) {
				a.changed = true
				continue
			}
			kept = append(kept, elem)
		}
		record[key] = kept
		prune(record, key)
		return
	}
	if a.Match.matches(record[key], a.CheckValue) {
		delete(record, key)
		a.changed = true
	}
}

// updateLeaf substitutes the value into matching array elements, or over
// a matching scalar in place.
func (a *Action) updateLeaf(record map[string]any, key string) {
	if arr, ok := record[key].([]any); ok {
		for i, elem := range arr {
			if a.Match.matches(elem, a.CheckValue) {
				arr[i] = a.Value
				a.changed = true
			}
		}
		return
	}
	if a.Match.matches(record[key], a.CheckValue) {
		record[key] = a.Value
		a.changed = true
	}
}

// prune drops empty sentinels from an array at key, then deletes the key
// when its value became such a sentinel itself.
func prune(record map[string]any, key string) {
	if arr, ok := record[key].([]any); ok {
		kept := make([]any, 0, len(arr))
		for _, elem := range arr {
			if !emptySentinel(elem) {
				kept = append(kept, elem)
			}
		}
		record[key] = kept
	}
	if emptySentinel(record[key]) {
		delete(record, key)
	}
}

// emptySentinel reports whether v is one of the shapes deletion leaves
// behind and cleanup removes: empty object, empty string, empty array.
// nil is not a sentinel; explicit nulls survive cleanup.
func emptySentinel(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		return len(t) == 0
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	default:
		return false
	}
}
