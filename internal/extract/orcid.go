package extract

import (
	"fmt"
	"strings"

	"github.com/linkedscience/crosswalk/internal/model"
)

// SourceORCID is the claim_source for ORCID JSON-LD documents.
const SourceORCID = "ORCID"

// ORCIDDocument maps an ORCID JSON-LD person document into claims:
// authorship from @reverse.creator, funding from @reverse.funder,
// organizational affiliation, and educational affiliation. affiliation and
// alumniOf may arrive as a single object or a list and are normalized before
// iteration.
func ORCIDDocument(doc map[string]any) ([]model.Claim, error) {
	given := docString(doc, "givenName")
	family := docString(doc, "familyName")
	if given == "" || family == "" {
		return nil, fmt.Errorf("orcid document missing givenName or familyName")
	}

	reference := docString(doc, "@id")
	orcid := docString(doc, "orcid")
	if orcid == "" && reference != "" {
		orcid = reference[strings.LastIndex(reference, "/")+1:]
	}

	stub := model.Claim{
		ClaimCreated:      nowISO(),
		ClaimSource:       SourceORCID,
		Reference:         reference,
		DateQualifier:     dateQualifier(doc, "_date_cached"),
		SubjectInstanceOf: string(model.TypePerson),
		SubjectLabel:      given + " " + family,
		SubjectIdentifiers: map[string]string{
			"orcid": orcid,
		},
	}

	var claims []model.Claim

	reverse := docMap(doc, "@reverse")

	for _, work := range docList(reverse, "creator") {
		name := docString(work, "name")
		if name == "" {
			continue
		}
		claim := stub
		claim.PropertyLabel = "author of"
		claim.ObjectInstanceOf = itemType(work, model.TypeCreativeWork)
		claim.ObjectLabel = name
		claim.ObjectIdentifiers = itemIdentifiers(work, false)
		claims = append(claims, claim, claim.Swap("authored by"))
	}

	for _, funder := range docList(reverse, "funder") {
		name := docString(funder, "name")
		if name == "" {
			continue
		}
		claim := stub
		claim.PropertyLabel = "funding organization"
		claim.ObjectInstanceOf = itemType(funder, model.TypeOrganization)
		claim.ObjectLabel = name
		claim.ObjectIdentifiers = itemIdentifiers(funder, true)
		claims = append(claims, claim)

		// The funder's alternateName carries the grant/project title when
		// ORCID has one; without it the funder name stands in. The funder's
		// registry identifiers stay on the organization claim only.
		project := docString(funder, "alternateName")
		if project == "" {
			project = name
		}
		projectClaim := stub
		projectClaim.PropertyLabel = "funded project"
		projectClaim.ObjectInstanceOf = string(model.TypeProject)
		projectClaim.ObjectLabel = project
		claims = append(claims, projectClaim)
	}

	for _, org := range docList(doc, "affiliation") {
		if claim, ok := affiliationClaim(stub, org, "organization affiliation"); ok {
			claims = append(claims, claim, claim.Swap("personnel affiliation"))
		}
	}

	for _, org := range docList(doc, "alumniOf") {
		if claim, ok := affiliationClaim(stub, org, "educational affiliation"); ok {
			claims = append(claims, claim, claim.Swap("student affiliation"))
		}
	}

	return Fingerprint(claims), nil
}

func affiliationClaim(stub model.Claim, org map[string]any, property string) (model.Claim, bool) {
	name := docString(org, "name")
	if name == "" {
		return model.Claim{}, false
	}
	if alt := docString(org, "alternateName"); alt != "" {
		name = name + ": " + alt
	}

	claim := stub
	claim.PropertyLabel = property
	claim.ObjectInstanceOf = itemType(org, model.TypeOrganization)
	claim.ObjectLabel = name
	claim.ObjectIdentifiers = itemIdentifiers(org, true)
	return claim, true
}

// itemType reads the schema.org @type off an item, defaulting when absent.
func itemType(item map[string]any, fallback model.EntityType) string {
	if t := docString(item, "@type"); t != "" {
		return t
	}
	return string(fallback)
}

// itemIdentifiers collects propertyID/value identifier pairs from an item,
// normalizing the single-object case. When includeID is set, the item's @id
// is kept as a fundref identifier the way ORCID expresses funder registry
// links.
func itemIdentifiers(item map[string]any, includeID bool) map[string]string {
	ids := make(map[string]string)
	if includeID {
		if ref := docString(item, "@id"); ref != "" {
			ids["fundref_id"] = ref
		}
	}
	for _, identifier := range docList(item, "identifier") {
		property := docString(identifier, "propertyID")
		value := docString(identifier, "value")
		if property != "" && value != "" {
			ids[property] = value
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}
