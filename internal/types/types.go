// Package types provides domain models shared across revisor components.
//
// Zero-dependency design: types.go, rules.go and errors.go use only the
// standard library so the engine packages stay lightweight. ID utilities in
// ids.go import uuid but are isolated for selective inclusion.
//
// Records themselves are decoded JSON trees (map[string]any / []any /
// scalars); the engine operates on them directly rather than through a
// wrapper type, so there is no record struct here.
package types

// RecordID represents a UUIDv7 record identifier.
// String alias enables type safety while maintaining JSON string serialization.
// UUIDv7 time-ordering ensures sequential IDs cluster in B-tree indexes.
type RecordID string

// JobID represents a UUIDv7 bulk-edit job identifier.
// String alias enables type safety while maintaining JSON string serialization.
type JobID string

// SessionToken identifies a pinned search result set between the search
// call and the preview/update calls that consume it.
type SessionToken string

// Resource limits enforced by the rule builder and the API layer to prevent
// DoS and keep batch latency predictable.
const (
	// MaxPathDepth prevents stack overflow during recursive traversal.
	// 16 levels handles deeply nested bibliographic structures (references,
	// nested titles) with ample headroom.
	MaxPathDepth = 16

	// MaxConditionsPerRule bounds condition re-evaluation cost per record.
	// 32 conditions covers realistic curation rules without quadratic blowup
	// against deep action paths.
	MaxConditionsPerRule = 32

	// MaxActionsPerRule bounds traversal fan-out per record.
	// 32 actions allows composite cleanup rules while keeping a single
	// record's rewrite cost linear in record size.
	MaxActionsPerRule = 32

	// MaxPageSize caps search/preview page sizes to bound result payloads.
	// 200 records per page keeps preview responses under typical proxy
	// body limits even for large records.
	MaxPageSize = 200
)
