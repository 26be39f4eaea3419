package model

import "encoding/json"

// Claim is a directed subject-property-object statement with provenance.
// It is the atomic unit of the normalized data model: every source record is
// decomposed into claims, and entities are recomputed from claims on demand.
type Claim struct {
	ClaimID      string `json:"claim_id,omitempty"`  // colon-joined source:subject:property:object
	ClaimUID     string `json:"claim_uid,omitempty"` // deterministic hash of ClaimID, dedup key
	ClaimCreated string `json:"claim_created"`       // ISO timestamp when the claim was produced
	ClaimSource  string `json:"claim_source"`        // fixed name of the originating source
	Reference    string `json:"reference"`           // dereferenceable URL backing the claim

	SubjectInstanceOf  string            `json:"subject_instance_of"`
	SubjectLabel       string            `json:"subject_label"`
	SubjectIdentifiers map[string]string `json:"subject_identifiers,omitempty"`

	PropertyLabel string `json:"property_label"`

	ObjectInstanceOf  string            `json:"object_instance_of"`
	ObjectLabel       string            `json:"object_label"`
	ObjectIdentifiers map[string]string `json:"object_identifiers,omitempty"`

	// ObjectQualifier carries contextual qualifiers such as employment status.
	ObjectQualifier string `json:"object_qualifier,omitempty"`
	// DateQualifier is the best available modification/publication date for
	// the statement, falling back to the extraction time.
	DateQualifier string `json:"date_qualifier"`

	// Flattened holds the scalar identifier fields produced by Fingerprint
	// (subject_identifier_<scheme>, object_identifier_<scheme>) for storage
	// backends that cannot index into the nested maps. MarshalJSON inlines
	// them as top-level fields alongside the nested maps.
	Flattened map[string]string `json:"-"`
}

// MarshalJSON emits the claim with the flattened identifier fields inlined
// at the top level, so serialized claims carry both the nested maps and the
// subject_identifier_<scheme> / object_identifier_<scheme> scalars.
func (c Claim) MarshalJSON() ([]byte, error) {
	type plain Claim
	base, err := json.Marshal(plain(c))
	if err != nil {
		return nil, err
	}
	if len(c.Flattened) == 0 {
		return base, nil
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range c.Flattened {
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		fields[k] = encoded
	}
	return json.Marshal(fields)
}

// Swap returns a copy of the claim with subject and object sides exchanged
// and the given property label. Provenance and qualifiers are preserved, so
// a claim and its Swap always share reference and date_qualifier.
func (c Claim) Swap(property string) Claim {
	inverse := c
	inverse.PropertyLabel = property
	inverse.SubjectInstanceOf, inverse.ObjectInstanceOf = c.ObjectInstanceOf, c.SubjectInstanceOf
	inverse.SubjectLabel, inverse.ObjectLabel = c.ObjectLabel, c.SubjectLabel
	inverse.SubjectIdentifiers, inverse.ObjectIdentifiers = c.ObjectIdentifiers, c.SubjectIdentifiers
	inverse.ClaimID = ""
	inverse.ClaimUID = ""
	inverse.Flattened = nil
	return inverse
}

// EntityType names the instance_of classes used across sources.
type EntityType string

const (
	TypePerson        EntityType = "Person"
	TypeOrganization  EntityType = "Organization"
	TypeCreativeWork  EntityType = "CreativeWork"
	TypeFieldOfWork   EntityType = "FieldOfWork"
	TypeContactMethod EntityType = "ContactMethod"
	TypeUnlinkedTerm  EntityType = "UnlinkedTerm"
	TypeProject       EntityType = "Project"
	TypeEvent         EntityType = "Event"
)
