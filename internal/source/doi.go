package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const doiBase = "https://doi.org"

// DOI resolves DOIs through doi.org content negotiation: CSL JSON for
// structured metadata and text/x-bibliography for a formatted citation.
type DOI struct {
	client *Client
}

func NewDOI(client *Client) *DOI {
	return &DOI{client: client}
}

// Record fetches the CSL JSON metadata for a DOI. Accepts a bare DOI or a
// doi.org URL.
func (d *DOI) Record(ctx context.Context, doi string) (map[string]any, error) {
	u, err := doiURL(doi)
	if err != nil {
		return nil, err
	}

	body, err := d.client.Get(ctx, u, "application/vnd.citationstyles.csl+json")
	if err != nil {
		return nil, err
	}

	doc := map[string]any{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode doi %s: %w", doi, err)
	}
	return doc, nil
}

// Citation fetches a formatted citation string for a DOI.
func (d *DOI) Citation(ctx context.Context, doi string) (string, error) {
	u, err := doiURL(doi)
	if err != nil {
		return "", err
	}

	body, err := d.client.Get(ctx, u, "text/x-bibliography")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

func doiURL(doi string) (string, error) {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, doiBase+"/")
	doi = strings.TrimPrefix(doi, "https://dx.doi.org/")
	if doi == "" {
		return "", fmt.Errorf("empty doi")
	}
	return doiBase + "/" + doi, nil
}
