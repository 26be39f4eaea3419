// Package assemble consolidates the claims referencing one real-world
// subject into a derived entity summary. Entities are recomputed from the
// current claim set on demand; assembling the same claims twice yields the
// same entity.
package assemble

import "github.com/linkedscience/crosswalk/internal/model"

// TypeConfig declares how entities of one instance_of type are summarized:
// which relationship properties become facet arrays, which raw source fields
// pass through, and how a category is assigned.
type TypeConfig struct {
	// Facets are the property labels whose object values are collected.
	Facets []string
	// SourceFields are copied verbatim from the raw source document when one
	// is supplied.
	SourceFields []string
	// CategoryField names a source-document field whose value is looked up
	// in CategoryMap to override Category.
	CategoryField string
	CategoryMap   map[string]string
	Category      string
}

// Config maps an entity type to its summarization rules. Kept as data, not
// branches: adding a facet or a type is a configuration change.
type Config map[model.EntityType]TypeConfig

// DefaultConfig covers the entity types the extractors produce.
func DefaultConfig() Config {
	return Config{
		model.TypePerson: {
			Facets: []string{
				"job title",
				"employed by",
				"organization affiliation",
				"educational affiliation",
				"author of",
				"editor of",
				"expertise",
				"addresses subject",
				"funding organization",
				"funded project",
				"telephone number",
			},
			Category: "person",
		},
		model.TypeOrganization: {
			Facets: []string{
				"employs person",
				"personnel affiliation",
				"student affiliation",
				"funding organization for",
				"publisher of",
			},
			Category: "organization",
		},
		model.TypeCreativeWork: {
			Facets: []string{
				"authored by",
				"edited by",
				"published by",
				"published in",
				"funded by",
				"addresses subject",
				"presented at",
			},
			SourceFields:  []string{"abstract", "title", "publicationYear"},
			CategoryField: "publicationType",
			CategoryMap: map[string]string{
				"Article": "publication",
				"Report":  "publication",
				"Book":    "publication",
				"Dataset": "data release",
			},
			Category: "creative work",
		},
	}
}
