// internal/rules/match.go
package rules

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/metadatalab/revisor/internal/types"
)

/*
 * Match predicates over record values.
 *
 * Implements the four predicate modes rules can use: equal, contains,
 * regex and missing. Predicates are leaf-level, comparing one scalar or
 * one array element at a time; existential fan-out over arrays happens in
 * the walkers (condition.go, action.go).
 *
 * Predicates:
 *   - equal: Deep comparison with numeric mixing (float64/int/int64) for
 *     JSON compatibility
 *   - contains: Substring for strings, member equality for arrays
 *   - regex: Literal substring through the regexp engine (the pattern is
 *     escaped). Behaviorally equivalent to contains for plain text; kept
 *     as a separate mode so pattern support can land without a wire change
 *   - missing: Never matches a present value; satisfied exclusively
 *     through the absent branch of the walkers
 *
 * Why function-based: switch dispatch over a small closed enum rather
 * than four interface implementations with minimal behavior variation.
 */

// MatchKind identifies the predicate mode of a condition or action.
type MatchKind int

const (
	MatchUnspecified MatchKind = iota
	MatchEqual
	MatchContains
	MatchRegex
	MatchMissing
)

// ParseMatchKind maps wire-format match type names to MatchKind.
func ParseMatchKind(s string) (MatchKind, error) {
	switch s {
	case "equal":
		return MatchEqual, nil
	case "contains":
		return MatchContains, nil
	case "regex":
		return MatchRegex, nil
	case "missing":
		return MatchMissing, nil
	default:
		return MatchUnspecified, fmt.Errorf("%q: %w", s, types.ErrUnknownMatchType)
	}
}

// matches applies the predicate to a single present value.
func (k MatchKind) matches(value, check any) bool {
	switch k {
	case MatchEqual:
		return matchEqual(value, check)
	case MatchContains:
		return matchContains(value, check)
	case MatchRegex:
		return matchRegex(value, check)
	default:
		// missing and unspecified never match a present value
		return false
	}
}

// matchEqual performs deep equality with numeric type mixing.
// Handles float64/int/int64 mixing from JSON unmarshaling and hand-built
// fixtures; everything else defers to reflect.DeepEqual so object and
// array values compare structurally.
func matchEqual(a, b any) bool {
	if na, nb, ok := asNumbers(a, b); ok {
		return na == nb
	}
	return reflect.DeepEqual(a, b)
}

// matchContains checks substring containment for strings and member
// equality for arrays. Other value shapes never contain anything.
func matchContains(value, check any) bool {
	switch v := value.(type) {
	case string:
		cs, ok := check.(string)
		if !ok {
			return false
		}
		return strings.Contains(v, cs)
	case []any:
		for _, elem := range v {
			if matchEqual(elem, check) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// matchRegex searches value for the escaped check string through the
// regexp engine. Both sides must be strings.
func matchRegex(value, check any) bool {
	vs, ok1 := value.(string)
	cs, ok2 := check.(string)
	if !ok1 || !ok2 {
		return false
	}
	matched, err := regexp.MatchString(regexp.QuoteMeta(cs), vs)
	return err == nil && matched
}

// asNumbers attempts to convert both values to float64 for numeric comparison.
// Returns converted values and success flag.
func asNumbers(a, b any) (float64, float64, bool) {
	na, oka := toFloat64(a)
	nb, okb := toFloat64(b)
	return na, nb, oka && okb
}

// toFloat64 converts value to float64 if it's a numeric type.
// Handles float64, int, int64 from JSON unmarshaling.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// absent reports whether key is missing from record or holds a falsy
// value. Falsy covers null, false, numeric zero, empty string, empty
// array and empty object; a key holding one is treated exactly like a
// key that is not there, so only the missing predicate can be satisfied
// on it and actions never mutate through it.
func absent(record map[string]any, key string) bool {
	value, ok := record[key]
	if !ok {
		return true
	}
	return isFalsy(value)
}

// isFalsy classifies the zero shapes of every JSON value class.
func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float64:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
