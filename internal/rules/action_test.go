// internal/rules/action_test.go
package rules

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/metadatalab/revisor/internal/schema"
	"github.com/metadatalab/revisor/internal/types"
)

func TestParseActionKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ActionKind
		wantErr bool
	}{
		{in: "Addition", want: ActionAddition},
		{in: "Deletion", want: ActionDeletion},
		{in: "Update", want: ActionUpdate},
		{in: "addition", wantErr: true},
		{in: "Replace", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseActionKind(tt.in)
			if tt.wantErr {
				if !errors.Is(err, types.ErrUnknownActionName) {
					t.Fatalf("ParseActionKind(%q) error = %v, want ErrUnknownActionName", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseActionKind(%q) error = %v, want nil", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseActionKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAddition(t *testing.T) {
	lit := literatureSchema(t)

	objectSchema := &schema.Node{
		Type: "object",
		Properties: map[string]*schema.Node{
			"key_a": {
				Type: "object",
				Properties: map[string]*schema.Node{
					"key_b": {Type: "string"},
					"key_c": {Type: "string"},
				},
			},
		},
	}

	tests := []struct {
		name        string
		record      string
		action      *Action
		node        *schema.Node
		want        string
		wantChanged bool
	}{
		{
			name:   "creates root key",
			record: `{}`,
			action: &Action{
				Kind:  ActionAddition,
				Path:  types.Path{"preprint_date"},
				Value: "2016",
			},
			node:        lit,
			want:        `{"preprint_date": "2016"}`,
			wantChanged: true,
		},
		{
			name:   "missing condition on own key allows creation",
			record: `{}`,
			action: &Action{
				Kind:  ActionAddition,
				Path:  types.Path{"_collections"},
				Value: "Literature",
				Conditions: []Condition{
					{Path: types.Path{"_collections"}, Kind: MatchMissing},
				},
			},
			node:        lit,
			want:        `{"_collections": ["Literature"]}`,
			wantChanged: true,
		},
		{
			name:   "condition below missing key blocks creation",
			record: `{}`,
			action: &Action{
				Kind:  ActionAddition,
				Path:  types.Path{"public_notes"},
				Value: map[string]any{"value": "Preliminary results"},
				Conditions: []Condition{
					{Path: types.Path{"public_notes", "value"}, Kind: MatchMissing},
				},
			},
			node:        lit,
			want:        `{}`,
			wantChanged: false,
		},
		{
			name: "creates root key when deeper conditions hold",
			record: `{
				"public_notes": [{"value": "Preliminary results"}, {"value": "test"}],
				"core": true
			}`,
			action: &Action{
				Kind:  ActionAddition,
				Path:  types.Path{"preprint_date"},
				Value: "2016",
				Conditions: []Condition{
					{Path: types.Path{"public_notes", "value"}, Kind: MatchEqual, Value: "Preliminary results"},
					{Path: types.Path{"core"}, Kind: MatchEqual, Value: true},
				},
			},
			node: lit,
			want: `{
				"public_notes": [{"value": "Preliminary results"}, {"value": "test"}],
				"core": true,
				"preprint_date": "2016"
			}`,
			wantChanged: true,
		},
		{
			name: "failed condition aborts",
			record: `{
				"public_notes": [{"value": "Preliminary results"}],
				"core": true,
				"titles": [{"title": "test"}]
			}`,
			action: &Action{
				Kind:  ActionAddition,
				Path:  types.Path{"preprint_date"},
				Value: "2016",
				Conditions: []Condition{
					{Path: types.Path{"public_notes", "value"}, Kind: MatchEqual, Value: "Preliminary results"},
					{Path: types.Path{"core"}, Kind: MatchEqual, Value: false},
				},
			},
			node: lit,
			want: `{
				"public_notes": [{"value": "Preliminary results"}],
				"core": true,
				"titles": [{"title": "test"}]
			}`,
			wantChanged: false,
		},
		{
			name: "appends object to present array when conditions hold",
			record: `{
				"public_notes": [{"value": "Preliminary results"}],
				"core": true,
				"titles": [{"title": "test"}]
			}`,
			action: &Action{
				Kind:  ActionAddition,
				Path:  types.Path{"titles"},
				Value: map[string]any{"title": "success"},
				Conditions: []Condition{
					{Path: types.Path{"public_notes", "value"}, Kind: MatchEqual, Value: "Preliminary results"},
					{Path: types.Path{"core"}, Kind: MatchEqual, Value: true},
				},
			},
			node: lit,
			want: `{
				"public_notes": [{"value": "Preliminary results"}],
				"core": true,
				"titles": [{"title": "test"}, {"title": "success"}]
			}`,
			wantChanged: true,
		},
		{
			name:   "creates nested key inside present object",
			record: `{"key_a": {"key_c": "test"}}`,
			action: &Action{
				Kind:  ActionAddition,
				Path:  types.Path{"key_a", "key_b"},
				Value: "success",
			},
			node:        objectSchema,
			want:        `{"key_a": {"key_b": "success", "key_c": "test"}}`,
			wantChanged: true,
		},
		{
			name:   "appends to nested array when sibling condition holds",
			record: `{"key_a": {"key_b": ["Hello"], "key_c": "test"}}`,
			action: &Action{
				Kind:  ActionAddition,
				Path:  types.Path{"key_a", "key_b"},
				Value: "World",
				Conditions: []Condition{
					{Path: types.Path{"key_a", "key_c"}, Kind: MatchEqual, Value: "test"},
				},
			},
			node:        nestedSchema(),
			want:        `{"key_a": {"key_b": ["Hello", "World"], "key_c": "test"}}`,
			wantChanged: true,
		},
		{
			name:   "empty record with unsettled condition stays empty",
			record: `{}`,
			action: &Action{
				Kind:  ActionAddition,
				Path:  types.Path{"key_a", "key_b"},
				Value: "World",
				Conditions: []Condition{
					{Path: types.Path{"key_a", "key_c"}, Kind: MatchEqual, Value: "test"},
				},
			},
			node:        nestedSchema(),
			want:        `{}`,
			wantChanged: false,
		},
		{
			name: "fans out over array elements",
			record: `{
				"titles": [{"title": "test"}, {"title": "test"}],
				"document_type": ["book"]
			}`,
			action: &Action{
				Kind:  ActionAddition,
				Path:  types.Path{"titles", "subtitle"},
				Value: "success",
			},
			node: lit,
			want: `{
				"titles": [
					{"title": "test", "subtitle": "success"},
					{"title": "test", "subtitle": "success"}
				],
				"document_type": ["book"]
			}`,
			wantChanged: true,
		},
		{
			name: "fans out with regex condition per element",
			record: `{
				"titles": [{"title": "test_1"}, {"title": "test"}],
				"document_type": ["book"]
			}`,
			action: &Action{
				Kind:  ActionAddition,
				Path:  types.Path{"titles", "subtitle"},
				Value: "success",
				Conditions: []Condition{
					{Path: types.Path{"titles", "title"}, Kind: MatchContains, Value: "test"},
				},
			},
			node: lit,
			want: `{
				"titles": [
					{"title": "test_1", "subtitle": "success"},
					{"title": "test", "subtitle": "success"}
				],
				"document_type": ["book"]
			}`,
			wantChanged: true,
		},
		{
			name: "appends only to elements whose condition holds",
			record: `{
				"authors": [
					{"affiliations": [{"value": "Rome"}], "signature_block": "BANARo"},
					{"affiliations": [{"value": "Rome U."}], "signature_block": "MANl"}
				]
			}`,
			action: &Action{
				Kind:  ActionAddition,
				Path:  types.Path{"authors", "affiliations"},
				Value: map[string]any{"curated_relation": true, "value": "Success"},
				Conditions: []Condition{
					{Path: types.Path{"authors", "signature_block"}, Kind: MatchEqual, Value: "BANARo"},
				},
			},
			node: lit,
			want: `{
				"authors": [
					{
						"affiliations": [
							{"value": "Rome"},
							{"curated_relation": true, "value": "Success"}
						],
						"signature_block": "BANARo"
					},
					{"affiliations": [{"value": "Rome U."}], "signature_block": "MANl"}
				]
			}`,
			wantChanged: true,
		},
		{
			name:   "present scalar leaf is left alone",
			record: `{"preprint_date": "2016"}`,
			action: &Action{
				Kind:  ActionAddition,
				Path:  types.Path{"preprint_date"},
				Value: "2017",
			},
			node:        lit,
			want:        `{"preprint_date": "2016"}`,
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := doc(t, tt.record)
			changed, err := tt.action.Apply(record, tt.node)
			if err != nil {
				t.Fatalf("Apply() error = %v, want nil", err)
			}
			if changed != tt.wantChanged {
				t.Fatalf("Apply() changed = %v, want %v", changed, tt.wantChanged)
			}
			if diff := cmp.Diff(doc(t, tt.want), record); diff != "" {
				t.Fatalf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeletion(t *testing.T) {
	tests := []struct {
		name        string
		record      string
		action      *Action
		want        string
		wantChanged bool
	}{
		{
			name: "filters matching array elements and drops emptied containers",
			record: `{
				"key_a": [
					{"key_c": ["val5", "val4"]},
					{"key_c": ["val1", "val6"]},
					{"key_c": ["val6", "val6"]},
					{"key_c": ["val3"]}
				],
				"key_b": {"key_c": {"key_d": "val"}}
			}`,
			action: &Action{
				Kind:       ActionDeletion,
				Path:       types.Path{"key_a", "key_c"},
				Match:      MatchEqual,
				CheckValue: "val6",
			},
			want: `{
				"key_a": [
					{"key_c": ["val5", "val4"]},
					{"key_c": ["val1"]},
					{"key_c": ["val3"]}
				],
				"key_b": {"key_c": {"key_d": "val"}}
			}`,
			wantChanged: true,
		},
		{
			name: "contains filter cascades emptiness to the root key",
			record: `{
				"key_a": [
					{"key_c": ["val5", "val4"]},
					{"key_c": ["val1", "val6"]},
					{"key_c": ["val4", "val6"]},
					{"key_c": ["val3"]}
				],
				"key_b": {"key_f": {"key_d": "val"}}
			}`,
			action: &Action{
				Kind:       ActionDeletion,
				Path:       types.Path{"key_a", "key_c"},
				Match:      MatchContains,
				CheckValue: "val",
			},
			want:        `{"key_b": {"key_f": {"key_d": "val"}}}`,
			wantChanged: true,
		},
		{
			name:   "scalar deletion cascades through emptied objects",
			record: `{"key1": {"key2": {"key3": "val"}}}`,
			action: &Action{
				Kind:       ActionDeletion,
				Path:       types.Path{"key1", "key2", "key3"},
				Match:      MatchEqual,
				CheckValue: "val",
			},
			want:        `{}`,
			wantChanged: true,
		},
		{
			name:   "no match leaves the record alone",
			record: `{"key_a": [{"key_c": ["val1"]}]}`,
			action: &Action{
				Kind:       ActionDeletion,
				Path:       types.Path{"key_a", "key_c"},
				Match:      MatchEqual,
				CheckValue: "zzz",
			},
			want:        `{"key_a": [{"key_c": ["val1"]}]}`,
			wantChanged: false,
		},
		{
			name:   "explicit null survives cleanup",
			record: `{"key_a": [{"key_c": null}, {"key_c": "val"}]}`,
			action: &Action{
				Kind:       ActionDeletion,
				Path:       types.Path{"key_a", "key_c"},
				Match:      MatchEqual,
				CheckValue: "val",
			},
			want:        `{"key_a": [{"key_c": null}]}`,
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := doc(t, tt.record)
			changed, err := tt.action.Apply(record, nil)
			if err != nil {
				t.Fatalf("Apply() error = %v, want nil", err)
			}
			if changed != tt.wantChanged {
				t.Fatalf("Apply() changed = %v, want %v", changed, tt.wantChanged)
			}
			if diff := cmp.Diff(doc(t, tt.want), record); diff != "" {
				t.Fatalf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	lit := literatureSchema(t)

	tests := []struct {
		name        string
		record      string
		action      *Action
		node        *schema.Node
		want        string
		wantChanged bool
	}{
		{
			name: "replaces matching array elements in place",
			record: `{
				"key_a": [
					{"key_c": ["val5", "val4"]},
					{"key_c": ["val1", "val6"]},
					{"key_c": ["val2"]},
					{"key_c": ["val3"]}
				],
				"key_b": {"key_c": {"key_d": "pong"}}
			}`,
			action: &Action{
				Kind:       ActionUpdate,
				Path:       types.Path{"key_a", "key_c"},
				Match:      MatchEqual,
				CheckValue: "val4",
				Value:      "success",
			},
			want: `{
				"key_a": [
					{"key_c": ["val5", "success"]},
					{"key_c": ["val1", "val6"]},
					{"key_c": ["val2"]},
					{"key_c": ["val3"]}
				],
				"key_b": {"key_c": {"key_d": "pong"}}
			}`,
			wantChanged: true,
		},
		{
			name: "regex update gated by regex condition per branch",
			record: `{
				"references": [
					{"reference": {"collaborations": ["val5", "tes4"], "title": {"title": "test"}}},
					{"reference": {"collaborations": ["val1", "tes4"], "title": {"title": "not"}}}
				]
			}`,
			action: &Action{
				Kind:       ActionUpdate,
				Path:       types.Path{"references", "reference", "collaborations"},
				Match:      MatchRegex,
				CheckValue: "val",
				Value:      "success",
				Conditions: []Condition{
					{Path: types.Path{"references", "reference", "title", "title"}, Kind: MatchRegex, Value: "test"},
				},
			},
			want: `{
				"references": [
					{"reference": {"collaborations": ["success", "tes4"], "title": {"title": "test"}}},
					{"reference": {"collaborations": ["val1", "tes4"], "title": {"title": "not"}}}
				]
			}`,
			wantChanged: true,
		},
		{
			name:   "missing leaf key is a no-op",
			record: `{"abstracts": [{"not_source": "success"}]}`,
			action: &Action{
				Kind:       ActionUpdate,
				Path:       types.Path{"abstracts", "source"},
				Match:      MatchEqual,
				CheckValue: "success",
				Value:      "failure",
			},
			want:        `{"abstracts": [{"not_source": "success"}]}`,
			wantChanged: false,
		},
		{
			name:   "missing leaf key under populated object is a no-op",
			record: `{"abstracts": [{"value": "A dataset corresponding to $2.8~\\mathrm{fb}^{-1}$"}]}`,
			action: &Action{
				Kind:       ActionUpdate,
				Path:       types.Path{"abstracts", "source"},
				Match:      MatchEqual,
				CheckValue: "test",
				Value:      "success",
			},
			want:        `{"abstracts": [{"value": "A dataset corresponding to $2.8~\\mathrm{fb}^{-1}$"}]}`,
			wantChanged: false,
		},
		{
			name: "regex update only in branches whose condition holds",
			record: `{
				"authors": [
					{
						"affiliations": [{"value": "INFN, Rome"}, {"value": "Rome"}, {"value": "INFN"}],
						"signature_block": "BANARo"
					},
					{
						"affiliations": [{"value": "Rome U."}, {"value": "Not INF"}],
						"signature_block": "MANl"
					}
				]
			}`,
			action: &Action{
				Kind:       ActionUpdate,
				Path:       types.Path{"authors", "affiliations", "value"},
				Match:      MatchRegex,
				CheckValue: "Rome",
				Value:      "Success",
				Conditions: []Condition{
					{Path: types.Path{"authors", "signature_block"}, Kind: MatchEqual, Value: "BANARo"},
				},
			},
			node: lit,
			want: `{
				"authors": [
					{
						"affiliations": [{"value": "Success"}, {"value": "Success"}, {"value": "INFN"}],
						"signature_block": "BANARo"
					},
					{
						"affiliations": [{"value": "Rome U."}, {"value": "Not INF"}],
						"signature_block": "MANl"
					}
				]
			}`,
			wantChanged: true,
		},
		{
			name: "missing condition selects branches lacking the key",
			record: `{
				"authors": [
					{
						"affiliations": [{"value": "INFN, Rome"}, {"value": "Rome"}, {"value": "INFN"}],
						"signature_block": "BANARo"
					},
					{
						"affiliations": [{"value": "Rome U."}, {"value": "Not INF"}]
					}
				]
			}`,
			action: &Action{
				Kind:       ActionUpdate,
				Path:       types.Path{"authors", "affiliations", "value"},
				Match:      MatchRegex,
				CheckValue: "Rome",
				Value:      "Success",
				Conditions: []Condition{
					{Path: types.Path{"authors", "signature_block"}, Kind: MatchMissing},
				},
			},
			node: lit,
			want: `{
				"authors": [
					{
						"affiliations": [{"value": "INFN, Rome"}, {"value": "Rome"}, {"value": "INFN"}],
						"signature_block": "BANARo"
					},
					{
						"affiliations": [{"value": "Success"}, {"value": "Not INF"}]
					}
				]
			}`,
			wantChanged: true,
		},
		{
			name:   "scalar replaced in place",
			record: `{"preprint_date": "2016"}`,
			action: &Action{
				Kind:       ActionUpdate,
				Path:       types.Path{"preprint_date"},
				Match:      MatchEqual,
				CheckValue: "2016",
				Value:      "2017",
			},
			node:        lit,
			want:        `{"preprint_date": "2017"}`,
			wantChanged: true,
		},
		{
			name:   "scalar no match leaves record and flag alone",
			record: `{"preprint_date": "2016"}`,
			action: &Action{
				Kind:       ActionUpdate,
				Path:       types.Path{"preprint_date"},
				Match:      MatchEqual,
				CheckValue: "1999",
				Value:      "2017",
			},
			node:        lit,
			want:        `{"preprint_date": "2016"}`,
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := doc(t, tt.record)
			changed, err := tt.action.Apply(record, tt.node)
			if err != nil {
				t.Fatalf("Apply() error = %v, want nil", err)
			}
			if changed != tt.wantChanged {
				t.Fatalf("Apply() changed = %v, want %v", changed, tt.wantChanged)
			}
			if diff := cmp.Diff(doc(t, tt.want), record); diff != "" {
				t.Fatalf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestActionSchemaErrors(t *testing.T) {
	lit := literatureSchema(t)

	tests := []struct {
		name   string
		record string
		action *Action
	}{
		{
			name:   "unknown root key",
			record: `{}`,
			action: &Action{Kind: ActionAddition, Path: types.Path{"bogus"}, Value: "x"},
		},
		{
			name:   "unknown root key with record value present",
			record: `{"bogus": "x"}`,
			action: &Action{Kind: ActionDeletion, Path: types.Path{"bogus"}, Match: MatchEqual, CheckValue: "x"},
		},
		{
			name:   "descending below an array of scalars",
			record: `{"corporate_author": ["CMS"]}`,
			action: &Action{Kind: ActionUpdate, Path: types.Path{"corporate_author", "value"}, Match: MatchEqual, CheckValue: "CMS", Value: "x"},
		},
		{
			name:   "unknown key below array of objects",
			record: `{"titles": [{"title": "test"}]}`,
			action: &Action{Kind: ActionAddition, Path: types.Path{"titles", "bogus"}, Value: "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := doc(t, tt.record)
			if _, err := tt.action.Apply(record, lit); !errors.Is(err, types.ErrSchemaMismatch) {
				t.Fatalf("Apply() error = %v, want ErrSchemaMismatch", err)
			}
		})
	}

	// An empty array is falsy, so the walk stops before the schema below
	// it is ever consulted.
	t.Run("empty scalar array stops before the mismatch", func(t *testing.T) {
		record := doc(t, `{"corporate_author": []}`)
		action := &Action{Kind: ActionUpdate, Path: types.Path{"corporate_author", "value"}, Match: MatchEqual, CheckValue: "CMS", Value: "x"}
		changed, err := action.Apply(record, lit)
		if err != nil {
			t.Fatalf("Apply() error = %v, want nil", err)
		}
		if changed {
			t.Fatalf("Apply() changed = true, want false")
		}
	})
}

// Record shapes the path cannot descend are tolerated silently; only the
// schema is authoritative enough to produce errors.
func TestActionShapeTolerance(t *testing.T) {
	lit := literatureSchema(t)

	tests := []struct {
		name   string
		record string
		action *Action
	}{
		{
			name:   "scalar where an array was expected",
			record: `{"titles": "not-an-array"}`,
			action: &Action{Kind: ActionAddition, Path: types.Path{"titles", "subtitle"}, Value: "x"},
		},
		{
			name:   "scalar elements inside an array of objects",
			record: `{"titles": ["plain string"]}`,
			action: &Action{Kind: ActionAddition, Path: types.Path{"titles", "subtitle"}, Value: "x"},
		},
		{
			name:   "interior object where the path expects a leaf",
			record: `{"self": {"$ref": "http://x"}}`,
			action: &Action{Kind: ActionDeletion, Path: types.Path{"self"}, Match: MatchEqual, CheckValue: "http://x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := doc(t, tt.record)
			want := doc(t, tt.record)
			changed, err := tt.action.Apply(record, lit)
			if err != nil {
				t.Fatalf("Apply() error = %v, want nil", err)
			}
			if changed {
				t.Fatalf("Apply() changed = true, want false")
			}
			if diff := cmp.Diff(want, record); diff != "" {
				t.Fatalf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestActionProperties(t *testing.T) {
	lit := literatureSchema(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("each application appends exactly one element", prop.ForAll(
		func(value string, n int) bool {
			record := map[string]any{}
			action := &Action{Kind: ActionAddition, Path: types.Path{"document_type"}, Value: value}
			for i := 0; i < n; i++ {
				changed, err := action.Apply(record, lit)
				if err != nil || !changed {
					return false
				}
			}
			arr, ok := record["document_type"].([]any)
			return ok && len(arr) == n
		},
		gen.AnyString(),
		gen.IntRange(1, 5),
	))

	properties.Property("deletion and update never touch records lacking the path", prop.ForAll(
		func(title, check string) bool {
			for _, kind := range []ActionKind{ActionDeletion, ActionUpdate} {
				record := map[string]any{"titles": []any{map[string]any{"title": title}}}
				want := map[string]any{"titles": []any{map[string]any{"title": title}}}
				action := &Action{
					Kind:       kind,
					Path:       types.Path{"abstracts", "value"},
					Match:      MatchEqual,
					CheckValue: check,
					Value:      "x",
				}
				changed, err := action.Apply(record, lit)
				if err != nil || changed || !cmp.Equal(want, record) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("apply never panics on surprising record shapes", prop.ForAll(
		func(raw string) (ok bool) {
			defer func() {
				if r := recover(); r != nil {
					ok = false
				}
			}()
			shapes := []any{
				raw,
				[]any{raw},
				map[string]any{"value": raw},
				nil,
				float64(len(raw)),
			}
			for _, shape := range shapes {
				for _, kind := range []ActionKind{ActionAddition, ActionDeletion, ActionUpdate} {
					record := map[string]any{"public_notes": shape}
					action := &Action{
						Kind:       kind,
						Path:       types.Path{"public_notes", "value"},
						Match:      MatchEqual,
						CheckValue: raw,
						Value:      "x",
					}
					_, _ = action.Apply(record, lit)
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
