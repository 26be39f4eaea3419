package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/linkedscience/crosswalk/internal/model"
)

// Directory talks to the ScienceBase directory API. Person documents come
// back as JSON; ParsePerson summarizes them into PersonRecord anchors.
type Directory struct {
	client  *Client
	baseURL string
}

func NewDirectory(client *Client, baseURL string) *Directory {
	return &Directory{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// PersonByURI fetches a single person document by its directory URI. A 404
// means the record is gone, reported as (nil, nil).
func (d *Directory) PersonByURI(ctx context.Context, uri string) (*model.PersonRecord, error) {
	doc := map[string]any{}
	if err := d.client.GetJSON(ctx, withFormatJSON(uri), &doc); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return ParsePerson(doc), nil
}

// PersonsByEmail searches the people endpoint by email address.
func (d *Directory) PersonsByEmail(ctx context.Context, email string) ([]model.PersonRecord, error) {
	query := url.Values{
		"format": {"json"},
		"email":  {email},
		"max":    {"10"},
	}
	var page struct {
		People []map[string]any `json:"people"`
	}
	if err := d.client.GetJSON(ctx, d.baseURL+"/people?"+query.Encode(), &page); err != nil {
		return nil, err
	}

	var records []model.PersonRecord
	for _, doc := range page.People {
		if rec := ParsePerson(doc); rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// People walks the full people listing, following nextlink pagination, and
// hands every raw person document to fn. fn returning an error stops the
// walk.
func (d *Directory) People(ctx context.Context, fn func(doc map[string]any) error) error {
	query := url.Values{
		"format": {"json"},
		"max":    {"1000"},
	}
	next := d.baseURL + "/people?" + query.Encode()

	for next != "" {
		var page struct {
			People   []map[string]any `json:"people"`
			NextLink struct {
				URL string `json:"url"`
			} `json:"nextlink"`
		}
		if err := d.client.GetJSON(ctx, next, &page); err != nil {
			return fmt.Errorf("directory page: %w", err)
		}
		if len(page.People) == 0 {
			return nil
		}
		for _, doc := range page.People {
			if err := fn(doc); err != nil {
				return err
			}
		}
		next = page.NextLink.URL
	}
	return nil
}

// ParsePerson summarizes a raw directory person document into a
// PersonRecord, or nil when the document has no directory URI.
func ParsePerson(doc map[string]any) *model.PersonRecord {
	uri := nestedString(doc, "link", "href")
	if uri == "" {
		return nil
	}

	rec := &model.PersonRecord{
		URI:         uri,
		DisplayName: stringField(doc, "displayName"),
		Email:       strings.ToLower(stringField(doc, "email")),
		ORCID:       stringField(doc, "orcId"),
		JobTitle:    stringField(doc, "jobTitle"),
		OrgName:     nestedString(doc, "organization", "displayText"),
		Raw:         doc,
	}
	if active, ok := doc["active"].(bool); ok {
		rec.Active = active
	}
	if org, ok := doc["organization"].(map[string]any); ok {
		rec.OrgURI = nestedString(org, "link", "href")
	}
	if aliases, ok := doc["aliases"].([]any); ok {
		for _, a := range aliases {
			if alias, ok := a.(map[string]any); ok {
				if name := stringField(alias, "name"); name != "" {
					rec.Aliases = append(rec.Aliases, name)
				}
			}
		}
	}
	if ids, ok := doc["identifiers"].([]any); ok {
		for _, raw := range ids {
			if id, ok := raw.(map[string]any); ok {
				rec.Identifiers = append(rec.Identifiers, model.PersonIdentifier{
					Type: stringField(id, "type"),
					Key:  stringField(id, "key"),
				})
			}
		}
	}
	return rec
}

func stringField(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return strings.TrimSpace(s)
}

func nestedString(doc map[string]any, outer, inner string) string {
	if m, ok := doc[outer].(map[string]any); ok {
		return stringField(m, inner)
	}
	return ""
}

// withFormatJSON appends format=json to a directory URI, preserving any
// query already present.
func withFormatJSON(uri string) string {
	if strings.Contains(uri, "?") {
		return uri + "&format=json"
	}
	return uri + "?format=json"
}
