package domain

import (
	"encoding/json"
	"strings"
)

// Metadata is the provenance block attached to every organised document
// under the "_metadata" key. It is attached exactly once per run.
type Metadata struct {
	// OriginalFile is the file path relative to the repository root.
	OriginalFile string `json:"original_file"`

	// Repository is the id of the repository the document came from.
	Repository string `json:"repository"`

	// OriginalType is the raw type label before normalisation.
	// "other" when the source document had no type field at all.
	OriginalType string `json:"original_type"`
}

// SourceDocument is one media catalog entry. Only the type and
// sourceName fields are interpreted; everything else is carried
// opaquely in Extra so arbitrary input documents round-trip unchanged.
type SourceDocument struct {
	// Type is the raw type label, nil when the field was absent.
	Type *string

	// SourceName is the display name, nil when the field was absent.
	SourceName *string

	// Extra holds all other fields of the original document verbatim.
	Extra map[string]json.RawMessage

	// Meta is the provenance block, nil until the aggregator attaches it.
	Meta *Metadata

	// Repository is set only on copies placed in the combined grouping,
	// as a top-level sibling of Meta.Repository. Both carry the same
	// value; the duplication matches the original output format.
	Repository string
}

// UnmarshalJSON decodes an arbitrary JSON object, lifting the type and
// sourceName fields out and keeping everything else raw.
func (d *SourceDocument) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	d.Type = nil
	d.SourceName = nil
	d.Extra = fields

	if raw, ok := fields["type"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			d.Type = &s
			delete(fields, "type")
		}
	}
	if raw, ok := fields["sourceName"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			d.SourceName = &s
			delete(fields, "sourceName")
		}
	}

	return nil
}

// MarshalJSON re-emits the document with its opaque fields plus the
// injected provenance fields. Keys are emitted in sorted order, so
// output is deterministic.
func (d *SourceDocument) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.Extra)+4)
	for k, v := range d.Extra {
		out[k] = v
	}

	if d.Type != nil {
		raw, err := json.Marshal(*d.Type)
		if err != nil {
			return nil, err
		}
		out["type"] = raw
	}
	if d.SourceName != nil {
		raw, err := json.Marshal(*d.SourceName)
		if err != nil {
			return nil, err
		}
		out["sourceName"] = raw
	}
	if d.Meta != nil {
		raw, err := json.Marshal(d.Meta)
		if err != nil {
			return nil, err
		}
		out["_metadata"] = raw
	}
	if d.Repository != "" {
		raw, err := json.Marshal(d.Repository)
		if err != nil {
			return nil, err
		}
		out["repository"] = raw
	}

	return json.Marshal(out)
}

// RawType returns the raw type label and whether the field was present.
func (d *SourceDocument) RawType() (string, bool) {
	if d.Type == nil {
		return "", false
	}
	return *d.Type, true
}

// DisplayName returns the sourceName for human-readable listings,
// or "Unknown" when the field was absent.
func (d *SourceDocument) DisplayName() string {
	if d.SourceName == nil {
		return "Unknown"
	}
	return *d.SourceName
}

// SortName returns the case-folded sourceName used by the ordering
// invariants. Missing names sort first as the empty string.
func (d *SourceDocument) SortName() string {
	if d.SourceName == nil {
		return ""
	}
	return strings.ToLower(*d.SourceName)
}

// Clone returns a shallow copy of the document. Extra values are shared;
// they are never mutated after ingestion.
func (d *SourceDocument) Clone() *SourceDocument {
	clone := *d
	return &clone
}

// Grouping is the two-level repository -> category -> documents
// structure built by the aggregator. Within each category the documents
// are ordered by case-insensitive sourceName after Finalize.
type Grouping map[string]map[string][]*SourceDocument

// CombinedGrouping is the category -> documents structure merged across
// all repositories, ordered by (repository, case-insensitive sourceName)
// after Finalize.
type CombinedGrouping map[string][]*SourceDocument

// Categories returns the set of category keys present across all
// repositories, unsorted.
func (g Grouping) Categories() map[string]struct{} {
	categories := make(map[string]struct{})
	for _, byCategory := range g {
		for category := range byCategory {
			categories[category] = struct{}{}
		}
	}
	return categories
}
