package model

// PublicationSummary is the flattened view of a publications-warehouse
// record kept in the relational cache alongside its claims.
type PublicationSummary struct {
	URI              string `json:"uri"`
	WarehouseID      string `json:"pw_id,omitempty"`
	Title            string `json:"title"`
	DOI              string `json:"doi,omitempty"`
	Abstract         string `json:"abstract,omitempty"`
	Publisher        string `json:"publisher,omitempty"`
	PublicationYear  string `json:"publication_year,omitempty"`
	PublicationType  string `json:"publication_type,omitempty"`
	SeriesTitle      string `json:"series_title,omitempty"`
	LastModifiedDate string `json:"last_modified_date,omitempty"`
	SummaryCreated   string `json:"summary_created"`
}

// Sentence is one tokenized sentence from a publication's title or abstract,
// keyed by the publication URI for downstream term tagging.
type Sentence struct {
	URI      string `json:"uri"`
	Source   string `json:"source"` // "title" or "abstract"
	Text     string `json:"sentence"`
	Position int    `json:"position"`
}
