package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/linkedscience/crosswalk/internal/reconcile"
)

// humansByORCIDQuery finds WikiData items that are instances of human (Q5)
// carrying the given ORCID iD (P496), with English labels.
const humansByORCIDQuery = `SELECT ?item ?itemLabel WHERE {
  ?item wdt:P31 wd:Q5 .
  ?item wdt:P496 %q .
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en" . }
}`

// WikiData runs SPARQL queries against the public query service.
type WikiData struct {
	client   *Client
	endpoint string
}

func NewWikiData(client *Client, endpoint string) *WikiData {
	return &WikiData{client: client, endpoint: endpoint}
}

// HumansByORCID returns the QID and label of every human item carrying the
// ORCID. Usually zero or one result; more than one is an upstream data
// problem the caller has to disambiguate by label.
func (w *WikiData) HumansByORCID(ctx context.Context, orcid string) ([]reconcile.WikiDataCandidate, error) {
	query := url.Values{
		"query":  {fmt.Sprintf(humansByORCIDQuery, orcid)},
		"format": {"json"},
	}

	var resp struct {
		Results struct {
			Bindings []map[string]struct {
				Value string `json:"value"`
			} `json:"bindings"`
		} `json:"results"`
	}
	if err := w.client.GetJSON(ctx, w.endpoint+"?"+query.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("sparql query: %w", err)
	}

	var candidates []reconcile.WikiDataCandidate
	for _, binding := range resp.Results.Bindings {
		qid := itemQID(binding["item"].Value)
		if qid == "" {
			continue
		}
		candidates = append(candidates, reconcile.WikiDataCandidate{
			QID:   qid,
			Label: binding["itemLabel"].Value,
		})
	}
	return candidates, nil
}

// itemQID extracts the QID from an entity URI such as
// http://www.wikidata.org/entity/Q42.
func itemQID(entityURI string) string {
	idx := strings.LastIndex(entityURI, "/")
	if idx < 0 || idx == len(entityURI)-1 {
		return ""
	}
	qid := entityURI[idx+1:]
	if !strings.HasPrefix(qid, "Q") {
		return ""
	}
	return qid
}
