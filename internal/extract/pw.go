package extract

import (
	"fmt"
	"strings"

	"github.com/linkedscience/crosswalk/internal/identify"
	"github.com/linkedscience/crosswalk/internal/model"
)

// SourcePublicationsWarehouse is the claim_source for warehouse records.
const SourcePublicationsWarehouse = "Publications Warehouse"

// DefaultPublicationAPI roots the resolvable publication reference URIs.
const DefaultPublicationAPI = "https://pubs.er.usgs.gov/pubs-services/publication"

// propertyClass describes how one contributor container on a warehouse
// record becomes a claim pair: the publication-side verb, the inverse verb
// from the contributor's side, and the object's instance_of type.
type propertyClass struct {
	forward    string
	inverse    string
	instanceOf model.EntityType
}

// contributorClasses is the property-class table driving warehouse
// extraction, in a fixed order so output is stable.
var contributorClasses = []struct {
	container string
	class     propertyClass
}{
	{"authors", propertyClass{"authored by", "author of", model.TypePerson}},
	{"editors", propertyClass{"edited by", "editor of", model.TypePerson}},
	{"publishers", propertyClass{"published by", "publisher of", model.TypeOrganization}},
}

// PublicationRecord maps a publications-warehouse record into claims: one
// pair per contributor in each configured class, cost centers as a
// funding-organization relationship, and contributor affiliations. A
// contributor with no usable name skips only that contributor.
func PublicationRecord(rec map[string]any) ([]model.Claim, error) {
	title := docString(rec, "title")
	if title == "" {
		return nil, fmt.Errorf("publication record missing title")
	}

	uri := publicationURI(rec)
	identifiers := map[string]string{}
	if uri != "" {
		identifiers["uri"] = uri
	}
	if doi := docString(rec, "doi"); doi != "" {
		identifiers["doi"] = doi
	}

	stub := model.Claim{
		ClaimCreated:       nowISO(),
		ClaimSource:        SourcePublicationsWarehouse,
		Reference:          uri,
		DateQualifier:      publicationDate(rec),
		SubjectInstanceOf:  string(model.TypeCreativeWork),
		SubjectLabel:       title,
		SubjectIdentifiers: identifiers,
	}

	var claims []model.Claim

	contributors := docMap(rec, "contributors")
	for _, entry := range contributorClasses {
		for _, contributor := range docList(contributors, entry.container) {
			name := warehouseContributorName(contributor)
			if name == "" {
				continue
			}

			claim := stub
			claim.PropertyLabel = entry.class.forward
			claim.ObjectInstanceOf = string(entry.class.instanceOf)
			claim.ObjectLabel = name
			claim.ObjectIdentifiers = warehouseContributorIdentifiers(contributor, name)
			claims = append(claims, claim, claim.Swap(entry.class.inverse))

			// Contributor affiliations fan out from the person's side.
			if entry.class.instanceOf == model.TypePerson {
				for _, affiliation := range docList(contributor, "affiliations") {
					affName := docString(affiliation, "text")
					if affName == "" {
						continue
					}
					affClaim := stub
					affClaim.SubjectInstanceOf = string(model.TypePerson)
					affClaim.SubjectLabel = name
					affClaim.SubjectIdentifiers = warehouseContributorIdentifiers(contributor, name)
					affClaim.PropertyLabel = "organization affiliation"
					affClaim.ObjectInstanceOf = string(model.TypeOrganization)
					affClaim.ObjectLabel = affName
					claims = append(claims, affClaim, affClaim.Swap("personnel affiliation"))
				}
			}
		}
	}

	// Cost centers behave like funding organizations for the publication.
	for _, center := range docList(rec, "costCenters") {
		name := docString(center, "text")
		if name == "" {
			continue
		}
		claim := stub
		claim.PropertyLabel = "funded by"
		claim.ObjectInstanceOf = string(model.TypeOrganization)
		claim.ObjectLabel = name
		ids := map[string]string{"name": name}
		switch id := center["id"].(type) {
		case string:
			ids["cost_center_id"] = id
		case float64:
			ids["cost_center_id"] = fmt.Sprintf("%.0f", id)
		}
		claim.ObjectIdentifiers = ids
		claims = append(claims, claim, claim.Swap("funding organization for"))
	}

	return Fingerprint(claims), nil
}

// publicationURI builds the resolvable reference for a warehouse record from
// its index id, falling back to the text prefix convention the API uses.
func publicationURI(rec map[string]any) string {
	if indexID := docString(rec, "indexId"); indexID != "" {
		return DefaultPublicationAPI + "/" + indexID
	}
	if text := docString(rec, "text"); text != "" {
		prefix := strings.TrimSpace(strings.SplitN(text, "-", 2)[0])
		if prefix != "" {
			return DefaultPublicationAPI + "/" + prefix
		}
	}
	return ""
}

// publicationDate prefers the record's modification date, then the
// publication year, then the extraction time.
func publicationDate(rec map[string]any) string {
	if v := docString(rec, "lastModifiedDate"); v != "" {
		return v
	}
	if year := publicationYear(rec); year != "" {
		return year
	}
	return nowISO()
}

func publicationYear(rec map[string]any) string {
	switch year := rec["publicationYear"].(type) {
	case string:
		return year
	case float64:
		return fmt.Sprintf("%.0f", year)
	default:
		return ""
	}
}

func warehouseContributorName(contributor map[string]any) string {
	if text := docString(contributor, "text"); text != "" {
		return text
	}
	given := docString(contributor, "given")
	family := docString(contributor, "family")
	if given != "" && family != "" {
		return given + " " + family
	}
	return ""
}

func warehouseContributorIdentifiers(contributor map[string]any, name string) map[string]string {
	ids := map[string]string{"name": name}
	if email := docString(contributor, "email"); email != "" {
		if id := identify.Recognize(email); id != nil && id.Scheme == model.SchemeEmail {
			ids["email"] = id.Value
		}
	}
	if orcid := docString(contributor, "orcid"); orcid != "" {
		if id := identify.Recognize(orcid); id != nil && id.Scheme == model.SchemeORCID {
			ids["orcid"] = id.Value
		}
	}
	return ids
}
