// Package identify recognizes actionable identifiers by lexical shape.
//
// Every extractor runs foreign keys through Recognize before attaching them
// to a claim, so a string that is not an actionable identifier simply does
// not become one; callers treat a nil result as "skip enrichment", never as
// an error.
package identify

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/linkedscience/crosswalk/internal/model"
)

const (
	doiResolver   = "https://doi.org/"
	orcidResolver = "https://orcid.org/"

	// profilePathSegment marks staff-profile page URLs on the public web.
	profilePathSegment = "/staff-profiles/"
)

var (
	doiPattern   = regexp.MustCompile(`(?i)10\.\d{4,9}/\S+$`)
	orcidPattern = regexp.MustCompile(`\d{4}-\d{4}-\d{4}-\w{4}`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Recognize pattern-matches a raw string into a canonical identifier record.
// Precedence is profile URL, then email, then DOI, then ORCID; the first
// match wins. Returns nil when the string has no actionable shape.
func Recognize(s string) *model.Identifier {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if id := recognizeProfileURL(s); id != nil {
		return id
	}

	if emailPattern.MatchString(s) {
		return &model.Identifier{
			Scheme: model.SchemeEmail,
			Value:  strings.ToLower(s),
		}
	}

	if m := doiPattern.FindString(s); m != "" {
		return &model.Identifier{
			Scheme: model.SchemeDOI,
			Value:  m,
			URL:    doiResolver + strings.ToUpper(m),
		}
	}

	if m := orcidPattern.FindString(s); m != "" {
		return &model.Identifier{
			Scheme: model.SchemeORCID,
			Value:  m,
			URL:    orcidResolver + strings.ToUpper(m),
		}
	}

	return nil
}

// recognizeProfileURL returns a profile identifier when the string is a URL
// containing the staff-profile path segment. The URL is already a
// dereferenceable URI, so it is returned unresolved; the Profile field is the
// same URL with any query string stripped.
func recognizeProfileURL(s string) *model.Identifier {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return nil
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}
	if !strings.Contains(strings.ToLower(u.Path), profilePathSegment) {
		return nil
	}

	normalized := *u
	normalized.RawQuery = ""
	normalized.Fragment = ""

	return &model.Identifier{
		Scheme:  model.SchemeProfile,
		Value:   s,
		URL:     s,
		Profile: normalized.String(),
	}
}
