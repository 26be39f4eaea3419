package extract

import (
	"fmt"

	"github.com/linkedscience/crosswalk/internal/model"
	"github.com/linkedscience/crosswalk/internal/ner"
)

// noAbstractMarker is what the warehouse returns instead of omitting the
// abstract field.
const noAbstractMarker = "No abstract available."

// SummarizePublication flattens a warehouse record into the summary row kept
// in the relational cache and tokenizes its title and abstract into
// sentences for term tagging. The sentence list is a side output; claim
// extraction never depends on it.
func SummarizePublication(rec map[string]any) (*model.PublicationSummary, []model.Sentence, error) {
	title := docString(rec, "title")
	if title == "" {
		return nil, nil, fmt.Errorf("publication record missing title")
	}

	summary := &model.PublicationSummary{
		URI:              publicationURI(rec),
		Title:            title,
		DOI:              docString(rec, "doi"),
		Publisher:        docString(rec, "publisher"),
		PublicationYear:  publicationYear(rec),
		PublicationType:  docString(docMap(rec, "publicationType"), "text"),
		SeriesTitle:      docString(docMap(rec, "seriesTitle"), "text"),
		LastModifiedDate: docString(rec, "lastModifiedDate"),
		SummaryCreated:   nowISO(),
	}

	switch id := rec["id"].(type) {
	case string:
		summary.WarehouseID = id
	case float64:
		summary.WarehouseID = fmt.Sprintf("%.0f", id)
	}

	sentences := []model.Sentence{{
		URI:    summary.URI,
		Source: "title",
		Text:   title,
	}}

	if abstract := docString(rec, "docAbstract"); abstract != "" {
		text := ner.StripHTML(abstract)
		if text != "" && text != noAbstractMarker {
			summary.Abstract = text
			// Positions continue past the title sentence so (uri, position)
			// stays unique across sources.
			for _, sentence := range ner.SplitSentences(text) {
				sentences = append(sentences, model.Sentence{
					URI:      summary.URI,
					Source:   "abstract",
					Text:     sentence,
					Position: len(sentences),
				})
			}
		}
	}

	return summary, sentences, nil
}
