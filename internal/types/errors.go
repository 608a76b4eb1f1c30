package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for revisor operations.
var (
	// ErrEmptyPath indicates an action was described with an empty main key.
	ErrEmptyPath = errors.New("action path is empty")

	// ErrPathTooDeep indicates a field path exceeds MaxPathDepth.
	ErrPathTooDeep = errors.New("field path exceeds maximum depth")

	// ErrUnknownActionName indicates an action name outside Addition/Deletion/Update.
	ErrUnknownActionName = errors.New("unknown action name")

	// ErrUnknownMatchType indicates a match type outside equal/contains/regex/missing.
	ErrUnknownMatchType = errors.New("unknown match type")

	// ErrTooManyConditions indicates a rule exceeds MaxConditionsPerRule.
	ErrTooManyConditions = errors.New("rule has too many conditions")

	// ErrTooManyActions indicates a rule exceeds MaxActionsPerRule.
	ErrTooManyActions = errors.New("rule has too many actions")

	// ErrNoActions indicates a rule describes no applicable actions at all.
	ErrNoActions = errors.New("rule has no actions")

	// ErrSchemaMismatch indicates a rule path is inconsistent with the record
	// schema (missing property, nesting inside an array of scalars). This is
	// a caller contract violation and is propagated, never swallowed.
	ErrSchemaMismatch = errors.New("path inconsistent with schema")

	// ErrUnknownSchema indicates no schema document is registered under the
	// requested collection name.
	ErrUnknownSchema = errors.New("unknown schema")

	// ErrRecordNotFound indicates a record ID is absent from the store.
	ErrRecordNotFound = errors.New("record not found")

	// ErrRevisionConflict indicates a commit lost an optimistic-concurrency
	// race: the record changed since it was loaded.
	ErrRevisionConflict = errors.New("record revision conflict")

	// ErrSessionNotFound indicates a preview/update referenced a search
	// session that never existed or already expired.
	ErrSessionNotFound = errors.New("search session not found or expired")

	// ErrJobNotFound indicates an unknown bulk-edit job ID.
	ErrJobNotFound = errors.New("job not found")
)

// ValidationError reports that a mutated record no longer conforms to its
// collection schema. Produced by the commit path; the batch layer collects
// these per record instead of aborting the run.
type ValidationError struct {
	RecordID RecordID
	Reason   string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %s failed validation: %s", e.RecordID, e.Reason)
}
