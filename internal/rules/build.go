// internal/rules/build.go
package rules

import (
	"fmt"

	"github.com/metadatalab/revisor/internal/schema"
	"github.com/metadatalab/revisor/internal/types"
)

/*
 * Rule set construction from wire descriptions.
 *
 * Maps the editor frontend's rule description (conditions + actions with
 * string-typed fields) onto compiled engine values. Building validates
 * everything validatable before any record is touched: paths parse and
 * stay within depth limits, match types and action names come from the
 * closed enums, and an action without a target path is rejected outright.
 *
 * Conditions with an empty key are placeholder rows from the rule form
 * and are skipped rather than rejected. The remaining conditions are
 * shared, as one slice, by every action in the set.
 *
 * Why build-time validation: rejecting malformed descriptions here moves
 * error detection to request time rather than mid-batch, where a failure
 * would strand a half-processed chunk.
 */

// RuleSet is a compiled bulk-edit rule: ordered actions sharing one
// ordered condition list.
type RuleSet struct {
	Conditions []Condition
	Actions    []*Action
}

// Build compiles a wire rule description into an applicable RuleSet.
// Returns a wrapped types sentinel error when the description is
// structurally invalid.
func Build(spec types.RuleSpec) (*RuleSet, error) {
	if len(spec.Conditions) > types.MaxConditionsPerRule {
		return nil, types.ErrTooManyConditions
	}
	if len(spec.Actions) > types.MaxActionsPerRule {
		return nil, types.ErrTooManyActions
	}

	conditions := make([]Condition, 0, len(spec.Conditions))
	for _, cs := range spec.Conditions {
		if cs.Key == "" {
			continue
		}
		path, err := types.ParsePath(cs.Key)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", cs.Key, err)
		}
		kind, err := ParseMatchKind(cs.MatchType)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", cs.Key, err)
		}
		conditions = append(conditions, Condition{Path: path, Kind: kind, Value: cs.Value})
	}

	actions := make([]*Action, 0, len(spec.Actions))
	for _, as := range spec.Actions {
		kind, err := ParseActionKind(as.ActionName)
		if err != nil {
			return nil, err
		}
		path, err := types.ParsePath(as.MainKey)
		if err != nil {
			return nil, fmt.Errorf("%s action: %w", as.ActionName, err)
		}

		// Additions don't match existing values, so the frontend may omit
		// their match type; the matching kinds must carry a valid one.
		match := MatchUnspecified
		if kind != ActionAddition || as.MatchType != "" {
			match, err = ParseMatchKind(as.MatchType)
			if err != nil {
				return nil, fmt.Errorf("%s action on %q: %w", as.ActionName, as.MainKey, err)
			}
		}

		actions = append(actions, &Action{
			Kind:       kind,
			Path:       path,
			Conditions: conditions,
			Value:      as.Value,
			CheckValue: as.UpdateValue,
			Match:      match,
		})
	}
	if len(actions) == 0 {
		return nil, types.ErrNoActions
	}

	return &RuleSet{Conditions: conditions, Actions: actions}, nil
}

// Apply runs every action, in order, against one record and reports
// whether any of them mutated it. Actions carry per-application state
// (the changed flag), so a RuleSet must not be applied concurrently;
// batch workers each build their own.
func (rs *RuleSet) Apply(record map[string]any, node *schema.Node) (bool, error) {
	changed := false
	for _, action := range rs.Actions {
		actionChanged, err := action.Apply(record, node)
		if actionChanged {
			changed = true
		}
		if err != nil {
			return changed, err
		}
	}
	return changed, nil
}
