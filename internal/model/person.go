package model

// PersonIdentifier is a secondary identifier entry on a directory person
// record, in the type/key shape the directory API uses.
type PersonIdentifier struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

// PersonRecord is the authoritative identity anchor for a person: the
// directory-assigned URI plus any secondary identifiers. Only the identity
// reconciler mutates the identifier list, and only for the schemes it
// controls.
type PersonRecord struct {
	URI         string             `json:"uri"`
	DisplayName string             `json:"display_name"`
	Aliases     []string           `json:"aliases,omitempty"`
	Email       string             `json:"email,omitempty"`
	ORCID       string             `json:"orcid,omitempty"`
	Active      bool               `json:"active"`
	JobTitle    string             `json:"job_title,omitempty"`
	OrgName     string             `json:"organization_name,omitempty"`
	OrgURI      string             `json:"organization_uri,omitempty"`
	Identifiers []PersonIdentifier `json:"identifiers,omitempty"`

	// Raw is the directory document the record was summarized from.
	Raw map[string]any `json:"-"`
}

// Identifier returns the key of the first identifier entry of the given type,
// or the empty string when none exists.
func (p *PersonRecord) Identifier(idType string) string {
	for _, id := range p.Identifiers {
		if id.Type == idType {
			return id.Key
		}
	}
	return ""
}

// PersonReference is a partial pointer to a person used to start
// reconciliation. At least one field must be set.
type PersonReference struct {
	Email        string `json:"email,omitempty"`
	DirectoryURI string `json:"directory_uri,omitempty"` // direct API reference
	ORCID        string `json:"orcid,omitempty"`
	WikiDataID   string `json:"wikidata_id,omitempty"`
}
