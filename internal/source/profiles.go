package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/linkedscience/crosswalk/internal/util"
)

const profilePathSegment = "/staff-profiles/"

// Profiles scrapes the USGS staff-profile listing and the individual profile
// pages. Scraping is the only access path for this source, so every fetch is
// gated on robots.txt.
type Profiles struct {
	client     *Client
	robots     *util.RobotsChecker
	listingURL string
}

func NewProfiles(client *Client, robots *util.RobotsChecker, listingURL string) *Profiles {
	return &Profiles{client: client, robots: robots, listingURL: listingURL}
}

// Inventory walks the paged staff listing and hands each scraped inventory
// record to fn. maxPages of zero walks until an empty page.
func (p *Profiles) Inventory(ctx context.Context, maxPages int, fn func(rec map[string]any) error) error {
	for page := 0; maxPages <= 0 || page < maxPages; page++ {
		pageURL := p.listingURL
		if page > 0 {
			pageURL += "?page=" + strconv.Itoa(page)
		}

		body, err := p.fetchHTML(ctx, pageURL)
		if err != nil {
			return fmt.Errorf("listing page %d: %w", page, err)
		}

		records, err := ParseListing(pageURL, body)
		if err != nil {
			return fmt.Errorf("parse listing page %d: %w", page, err)
		}
		if len(records) == 0 {
			return nil
		}
		for _, rec := range records {
			if err := fn(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// Profile fetches and parses one staff-profile page.
func (p *Profiles) Profile(ctx context.Context, profileURL string) (map[string]any, error) {
	body, err := p.fetchHTML(ctx, profileURL)
	if err != nil {
		return nil, err
	}
	return ParseProfile(profileURL, body), nil
}

func (p *Profiles) fetchHTML(ctx context.Context, rawURL string) ([]byte, error) {
	if p.robots != nil {
		allowed, delay, err := p.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return p.client.Get(ctx, rawURL, "text/html")
}

// ParseListing extracts one inventory record per staff entry on a listing
// page. An entry is a profile link; the mailto and tel links in the same row
// or list item supply contact details.
func ParseListing(listingURL string, body []byte) ([]map[string]any, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	base, err := url.Parse(listingURL)
	if err != nil {
		return nil, fmt.Errorf("parse listing url: %w", err)
	}

	cached := time.Now().UTC().Format(time.RFC3339)
	var records []map[string]any
	seen := map[string]bool{}

	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "a" {
			return true
		}
		href := attr(n, "href")
		if !strings.Contains(href, profilePathSegment) || strings.HasSuffix(href, profilePathSegment) {
			return true
		}
		resolved, err := base.Parse(href)
		if err != nil {
			return true
		}
		profile := resolved.String()
		name := nodeText(n)
		if name == "" || seen[profile] {
			return true
		}
		seen[profile] = true

		rec := map[string]any{
			"name":        name,
			"profile":     profile,
			"reference":   listingURL,
			"date_cached": cached,
		}
		if row := rowAncestor(n); row != nil {
			if email := firstLink(row, "mailto:"); email != "" {
				rec["email"] = strings.ToLower(strings.TrimPrefix(email, "mailto:"))
			}
			if tel := firstLink(row, "tel:"); tel != "" {
				rec["telephone"] = strings.TrimPrefix(tel, "tel:")
			}
		}
		records = append(records, rec)
		return false
	})

	return records, nil
}

// ParseProfile extracts the owner's details from a staff-profile page:
// display name, contact identifiers, employing center, and the
// self-declared expertise terms.
func ParseProfile(profileURL string, body []byte) map[string]any {
	rec := map[string]any{
		"profile":     profileURL,
		"date_cached": time.Now().UTC().Format(time.RFC3339),
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return rec
	}

	var expertise []string
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.Data {
		case "h1":
			if _, ok := rec["display_name"]; !ok {
				if name := nodeText(n); name != "" {
					rec["display_name"] = name
				}
			}
		case "a":
			href := attr(n, "href")
			switch {
			case strings.HasPrefix(href, "mailto:"):
				if _, ok := rec["email"]; !ok {
					rec["email"] = strings.ToLower(strings.TrimPrefix(href, "mailto:"))
				}
			case strings.Contains(href, "orcid.org/"):
				if _, ok := rec["orcid"]; !ok {
					rec["orcid"] = href
				}
			case strings.Contains(href, "/science-topics/"):
				if term := nodeText(n); term != "" {
					expertise = append(expertise, term)
				}
			case strings.Contains(href, "/centers/"):
				if _, ok := rec["organization_name"]; !ok {
					if name := nodeText(n); name != "" {
						rec["organization_name"] = name
						rec["organization_link"] = href
					}
				}
			}
		}
		return true
	})

	if len(expertise) > 0 {
		rec["expertise"] = dedupe(expertise)
	}
	return rec
}

// walk runs fn on every node depth-first. fn returning false prunes the
// subtree.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// rowAncestor climbs to the nearest enclosing table row or list item, which
// on the staff listing holds the contact links for one person.
func rowAncestor(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && (p.Data == "tr" || p.Data == "li") {
			return p
		}
	}
	return nil
}

// firstLink finds the first anchor under n whose href has the given prefix.
func firstLink(n *html.Node, prefix string) string {
	var found string
	walk(n, func(c *html.Node) bool {
		if found != "" {
			return false
		}
		if c.Type == html.ElementNode && c.Data == "a" {
			if href := attr(c, "href"); strings.HasPrefix(href, prefix) {
				found = href
				return false
			}
		}
		return true
	})
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

func dedupe(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := terms[:0]
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
