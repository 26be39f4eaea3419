package model

// Entity is a consolidated view of one real-world subject assembled from all
// claims in which it appears. Entities are derived, never authoritative: they
// are a pure function of the claim set and safe to recompute at any time.
type Entity struct {
	EntityID   string `json:"entity_id,omitempty"` // absent when no addressable identifier exists
	InstanceOf string `json:"instance_of"`

	Name           string   `json:"name,omitempty"`
	AlternateNames []string `json:"alternate_names,omitempty"` // Person only

	// Identifiers is the merged identifier map across every claim side of the
	// target type, first-seen-per-scheme wins.
	Identifiers map[string]string `json:"identifiers,omitempty"`

	Category   string   `json:"category,omitempty"`
	References []string `json:"references,omitempty"` // distinct claim reference URLs
	Sources    []string `json:"sources,omitempty"`    // distinct claim_source values

	// Facets maps a configured relationship property to the distinct object
	// labels found for it, sorted.
	Facets map[string][]string `json:"facets,omitempty"`

	// SourceFields carries configured fields passed through verbatim from a
	// raw source document (abstract, title, ...).
	SourceFields map[string]string `json:"source_fields,omitempty"`
}
