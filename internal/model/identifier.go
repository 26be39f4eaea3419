package model

// Scheme tags the kind of an identifier. A scheme is derived purely from the
// lexical shape of the input string, never from context.
type Scheme string

const (
	SchemeDOI          Scheme = "doi"
	SchemeORCID        Scheme = "orcid"
	SchemeEmail        Scheme = "email"
	SchemeProfile      Scheme = "profile"       // staff-profile page URL
	SchemeDirectoryURI Scheme = "directory_uri" // directory-assigned person URI
	SchemeWikiData     Scheme = "wikidata_qid"
)

// Identifier is a tagged identifier value plus, for resolvable schemes, a
// canonical dereference URL. Identifiers are unique only within the namespace
// of the source that produced them.
type Identifier struct {
	Scheme Scheme `json:"scheme"`
	Value  string `json:"value"`
	URL    string `json:"url,omitempty"` // resolver URL; empty for email
	// Profile is the normalized profile URL with any query string stripped,
	// populated for the profile scheme only.
	Profile string `json:"profile,omitempty"`
}
