package extract

import (
	"fmt"
	"strings"

	"github.com/linkedscience/crosswalk/internal/identify"
	"github.com/linkedscience/crosswalk/internal/model"
)

// SourceDOI is the claim_source for DOI registry (CSL-JSON) documents.
const SourceDOI = "DOI"

// contributorRoles maps the CSL contributor containers to their claim pairs,
// in a fixed order so extraction output is stable.
var contributorRoles = []struct {
	container string
	forward   string
	inverse   string
}{
	{"author", "authored by", "author of"},
	{"editor", "edited by", "editor of"},
}

// DOIRecord maps a CSL-JSON registry document into claims: publisher,
// container title, subject terms, funders, event, and one claim pair per
// contributor. Contributor claims additionally fan out the publication's
// subject/funder/event facts and the contributor's own affiliations from the
// contributor's point of view. Contributors without any usable name form are
// skipped; the rest of the record still processes.
func DOIRecord(doc map[string]any) ([]model.Claim, error) {
	doi := docString(doc, "DOI")
	title := docString(doc, "title")
	if doi == "" || title == "" {
		return nil, fmt.Errorf("doi document missing DOI or title")
	}

	reference := docString(doc, "URL")
	if reference == "" {
		if id := identify.Recognize(doi); id != nil {
			reference = id.URL
		}
	}

	stub := model.Claim{
		ClaimCreated:      nowISO(),
		ClaimSource:       SourceDOI,
		Reference:         reference,
		DateQualifier:     issuedDate(doc),
		SubjectInstanceOf: string(model.TypeCreativeWork),
		SubjectLabel:      title,
		SubjectIdentifiers: map[string]string{
			"doi": doi,
		},
	}

	var claims []model.Claim
	emit := func(property, instanceOf, label string, ids map[string]string) {
		if label == "" {
			return
		}
		claim := stub
		claim.PropertyLabel = property
		claim.ObjectInstanceOf = instanceOf
		claim.ObjectLabel = label
		claim.ObjectIdentifiers = ids
		claims = append(claims, claim)
	}

	emit("published by", string(model.TypeOrganization), docString(doc, "publisher"), nil)
	emit("published in", string(model.TypeCreativeWork), docString(doc, "container-title"), nil)
	emit("presented at", string(model.TypeEvent), docString(docMap(doc, "event"), "name"), nil)

	terms := docStrings(doc, "subject")
	for _, chunk := range strings.Split(docString(doc, "categories"), ",") {
		if term := strings.TrimSpace(chunk); term != "" {
			terms = append(terms, term)
		}
	}
	for _, term := range terms {
		emit("addresses subject", string(model.TypeUnlinkedTerm), term, nil)
	}

	for _, funder := range docList(doc, "funder") {
		ids := map[string]string(nil)
		if funderDOI := docString(funder, "DOI"); funderDOI != "" {
			ids = map[string]string{"doi": funderDOI}
		}
		emit("funded by", string(model.TypeOrganization), docString(funder, "name"), ids)
	}

	for _, role := range contributorRoles {
		for _, contributor := range docList(doc, role.container) {
			name := contributorName(contributor)
			if name == "" {
				continue
			}
			claims = append(claims, contributorClaims(stub, contributor, name, role.forward, role.inverse, terms)...)
		}
	}

	return Fingerprint(claims), nil
}

// contributorClaims produces the publication/person pair plus the fan-out of
// the contributor's affiliations and the record's subject facts seen from the
// contributor's side.
func contributorClaims(stub model.Claim, contributor map[string]any, name, forward, inverse string, terms []string) []model.Claim {
	personIDs := map[string]string{"name": name}
	if orcid := docString(contributor, "ORCID"); orcid != "" {
		if id := identify.Recognize(orcid); id != nil && id.Scheme == model.SchemeORCID {
			personIDs["orcid"] = id.Value
		}
	}

	claim := stub
	claim.PropertyLabel = forward
	claim.ObjectInstanceOf = string(model.TypePerson)
	claim.ObjectLabel = name
	claim.ObjectIdentifiers = personIDs

	claims := []model.Claim{claim, claim.Swap(inverse)}

	// The contributor-subject stub reuses the person as subject.
	personStub := stub
	personStub.SubjectInstanceOf = string(model.TypePerson)
	personStub.SubjectLabel = name
	personStub.SubjectIdentifiers = copyIdentifiers(personIDs)

	for _, affiliation := range contributorAffiliations(contributor) {
		affClaim := personStub
		affClaim.PropertyLabel = "organization affiliation"
		affClaim.ObjectInstanceOf = string(model.TypeOrganization)
		affClaim.ObjectLabel = affiliation
		claims = append(claims, affClaim)
	}

	for _, term := range terms {
		termClaim := personStub
		termClaim.PropertyLabel = "addresses subject"
		termClaim.ObjectInstanceOf = string(model.TypeUnlinkedTerm)
		termClaim.ObjectLabel = term
		claims = append(claims, termClaim)
	}

	return claims
}

// contributorName picks the first usable name form: literal, name, or
// given+family.
func contributorName(contributor map[string]any) string {
	if literal := docString(contributor, "literal"); literal != "" {
		return literal
	}
	if name := docString(contributor, "name"); name != "" {
		return name
	}
	given := docString(contributor, "given")
	family := docString(contributor, "family")
	if given != "" && family != "" {
		return given + " " + family
	}
	return ""
}

// contributorAffiliations reads CSL affiliation entries, which appear either
// as bare strings or as objects with a name field.
func contributorAffiliations(contributor map[string]any) []string {
	var out []string
	switch v := contributor["affiliation"].(type) {
	case []any:
		for _, item := range v {
			switch a := item.(type) {
			case string:
				if s := strings.TrimSpace(a); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				if s := docString(a, "name"); s != "" {
					out = append(out, s)
				}
			}
		}
	case map[string]any:
		if s := docString(v, "name"); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// issuedDate renders the CSL issued date-parts as an ISO-ish date string,
// falling back through created to the extraction time.
func issuedDate(doc map[string]any) string {
	for _, key := range []string{"issued", "created"} {
		section := docMap(doc, key)
		if section == nil {
			continue
		}
		if dt := docString(section, "date-time"); dt != "" {
			return dt
		}
		parts, ok := section["date-parts"].([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		first, ok := parts[0].([]any)
		if !ok || len(first) == 0 {
			continue
		}
		segments := make([]string, 0, len(first))
		for _, part := range first {
			switch n := part.(type) {
			case float64:
				if len(segments) == 0 {
					segments = append(segments, fmt.Sprintf("%04.0f", n))
				} else {
					segments = append(segments, fmt.Sprintf("%02.0f", n))
				}
			case string:
				segments = append(segments, n)
			}
		}
		if len(segments) > 0 {
			return strings.Join(segments, "-")
		}
	}
	return nowISO()
}
