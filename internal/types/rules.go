// internal/types/rules.go
package types

import "strings"

/*
 * Domain types for bulk-edit rule descriptions.
 *
 * Provides RuleSpec, ConditionSpec, ActionSpec and Path used by
 * internal/rules for building and applying rule sets. These types are
 * wire-format aligned: field names match the JSON the editor frontend
 * submits, and conversion to compiled engine values happens in
 * internal/rules/build.go.
 *
 * Key types:
 *   - RuleSpec: Complete rule description (shared conditions + actions)
 *   - ConditionSpec: Single condition (path, predicate, value)
 *   - ActionSpec: Single action (path, kind, value, match value)
 *   - Path: Parsed /-separated field path
 *
 * Dependencies: None (standard library only)
 */

// Path is an ordered list of object keys addressing a location in a record
// tree. Segments never address array indices; array traversal is always
// existential fan-out in the engine.
type Path []string

// ParsePath splits a /-separated key string into a Path.
// Empty input is rejected; interior empty segments are preserved (they
// address the empty-string key, which simply never matches real records).
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, ErrEmptyPath
	}
	segments := strings.Split(s, "/")
	if len(segments) > MaxPathDepth {
		return nil, ErrPathTooDeep
	}
	return Path(segments), nil
}

// String joins the path back into its /-separated wire form.
func (p Path) String() string {
	return strings.Join(p, "/")
}

// Last returns the final segment, the key the action ultimately targets.
func (p Path) Last() string {
	return p[len(p)-1]
}

// ConditionSpec describes one condition as submitted by the editor frontend.
// An empty Key marks a placeholder row in the UI and is skipped at build time.
type ConditionSpec struct {
	Key       string `json:"key"`       // /-separated path
	Value     any    `json:"value"`     // comparison value
	MatchType string `json:"matchType"` // equal | contains | regex | missing
}

// ActionSpec describes one action as submitted by the editor frontend.
type ActionSpec struct {
	MainKey     string `json:"mainKey"`     // /-separated target path
	ActionName  string `json:"actionName"`  // Addition | Deletion | Update
	Value       any    `json:"value"`       // value to add (Addition) or substitute (Update)
	UpdateValue any    `json:"updateValue"` // value to match (Deletion/Update)
	MatchType   string `json:"matchType"`   // equal | contains | regex | missing
}

// RuleSpec is a complete bulk-edit rule description: one ordered list of
// conditions shared by every action in the ordered action list.
type RuleSpec struct {
	Conditions []ConditionSpec `json:"conditions"`
	Actions    []ActionSpec    `json:"actions"`
}
