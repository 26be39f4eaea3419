package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const orcidBase = "https://orcid.org"

// ORCID fetches public ORCID records as JSON-LD, the representation the
// claim extractor consumes.
type ORCID struct {
	client *Client
}

func NewORCID(client *Client) *ORCID {
	return &ORCID{client: client}
}

// Record fetches the JSON-LD document for one ORCID. Accepts a bare id or a
// full orcid.org URL.
func (o *ORCID) Record(ctx context.Context, orcid string) (map[string]any, error) {
	id := strings.TrimPrefix(strings.TrimSpace(orcid), orcidBase+"/")
	if id == "" {
		return nil, fmt.Errorf("empty orcid")
	}

	body, err := o.client.Get(ctx, orcidBase+"/"+id, "application/ld+json")
	if err != nil {
		return nil, err
	}

	doc := map[string]any{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode orcid %s: %w", id, err)
	}
	return doc, nil
}
