package source

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Warehouse pages through the Publications Warehouse REST API.
type Warehouse struct {
	client   *Client
	baseURL  string
	pageSize int
}

func NewWarehouse(client *Client, baseURL string) *Warehouse {
	return &Warehouse{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: 1000,
	}
}

// RecordQuery narrows a Records walk. The zero value walks everything.
type RecordQuery struct {
	ModXDays  int // records modified in the last N days
	StartYear int
	EndYear   int
}

// Records walks every publication record matching q, page by page, and hands
// each raw record document to fn.
func (w *Warehouse) Records(ctx context.Context, q RecordQuery, fn func(rec map[string]any) error) error {
	for pageNumber := 1; ; pageNumber++ {
		query := url.Values{
			"page_size":   {strconv.Itoa(w.pageSize)},
			"page_number": {strconv.Itoa(pageNumber)},
		}
		if q.ModXDays > 0 {
			query.Set("mod_x_days", strconv.Itoa(q.ModXDays))
		}
		if q.StartYear > 0 {
			query.Set("startYear", strconv.Itoa(q.StartYear))
		}
		if q.EndYear > 0 {
			query.Set("endYear", strconv.Itoa(q.EndYear))
		}

		var page struct {
			Records []map[string]any `json:"records"`
		}
		if err := w.client.GetJSON(ctx, w.baseURL+"?"+query.Encode(), &page); err != nil {
			return fmt.Errorf("warehouse page %d: %w", pageNumber, err)
		}
		if len(page.Records) == 0 {
			return nil
		}
		for _, rec := range page.Records {
			if err := fn(rec); err != nil {
				return err
			}
		}
	}
}

// Record fetches one publication by its index id.
func (w *Warehouse) Record(ctx context.Context, indexID string) (map[string]any, error) {
	indexID = strings.TrimSpace(indexID)
	if indexID == "" {
		return nil, fmt.Errorf("empty index id")
	}

	rec := map[string]any{}
	if err := w.client.GetJSON(ctx, w.baseURL+"/"+url.PathEscape(indexID), &rec); err != nil {
		return nil, err
	}
	return rec, nil
}
