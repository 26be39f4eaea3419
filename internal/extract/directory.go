package extract

import (
	"fmt"
	"strings"

	"github.com/linkedscience/crosswalk/internal/model"
)

// SourceDirectory is the claim_source for directory person records.
const SourceDirectory = "ScienceBase Directory"

const (
	// QualifierActiveEmployee marks an employment claim for a person the
	// directory still flags active; the date_qualifier bounds the statement.
	QualifierActiveEmployee = "Current active employee as of date_qualifier"
	// QualifierFormerEmployee marks employment that is no longer current.
	QualifierFormerEmployee = "No longer an active employee"
)

// DirectoryPerson maps an authoritative directory person document into
// claims: job title, and the employed-by / employs-person pair qualified by
// the active flag. Returns an error only when the document lacks the fields
// that identify its subject; optional fields skip their claim family.
func DirectoryPerson(doc map[string]any) ([]model.Claim, error) {
	name := docString(doc, "displayName")
	uri := docString(docMap(doc, "link"), "href")
	if name == "" || uri == "" {
		return nil, fmt.Errorf("directory person document missing displayName or link.href")
	}

	identifiers := map[string]string{
		"name":          name,
		"directory_uri": uri,
	}
	if email := docString(doc, "email"); email != "" {
		identifiers["email"] = strings.ToLower(email)
	}
	if orcid := docString(doc, "orcId"); orcid != "" {
		identifiers["orcid"] = orcid
	}

	stub := model.Claim{
		ClaimCreated:       nowISO(),
		ClaimSource:        SourceDirectory,
		Reference:          uri,
		DateQualifier:      dateQualifier(doc, "lastUpdated", "date_cached"),
		SubjectInstanceOf:  string(model.TypePerson),
		SubjectLabel:       name,
		SubjectIdentifiers: identifiers,
	}

	var claims []model.Claim

	if title := docString(doc, "jobTitle"); title != "" {
		claim := stub
		claim.PropertyLabel = "job title"
		claim.ObjectInstanceOf = string(model.TypeFieldOfWork)
		claim.ObjectLabel = title
		claims = append(claims, claim)
	}

	if org := docMap(doc, "organization"); org != nil {
		claim := stub
		claim.PropertyLabel = "employed by"
		claim.ObjectInstanceOf = string(model.TypeOrganization)
		claim.ObjectLabel = docString(org, "displayText")
		claim.ObjectIdentifiers = organizationIdentifiers(doc, org, uri)
		if active, ok := docBool(doc, "active"); ok {
			if active {
				claim.ObjectQualifier = QualifierActiveEmployee
			} else {
				claim.ObjectQualifier = QualifierFormerEmployee
			}
		}
		claims = append(claims, claim, claim.Swap("employs person"))
	}

	return Fingerprint(claims), nil
}

// organizationIdentifiers builds the identifier map for the employing
// organization, deriving its directory URI from the person URI so the
// extractor stays independent of endpoint configuration.
func organizationIdentifiers(doc, org map[string]any, personURI string) map[string]string {
	ids := make(map[string]string)
	if name := docString(org, "displayText"); name != "" {
		ids["name"] = name
	}

	var orgID string
	switch v := org["id"].(type) {
	case string:
		orgID = v
	case float64:
		orgID = fmt.Sprintf("%.0f", v)
	}
	if orgID != "" {
		if root, ok := strings.CutSuffix(personURI[:strings.LastIndex(personURI, "/")+1], "person/"); ok {
			ids["directory_uri"] = root + "organization/" + orgID
		}
	}

	if ext := docMap(docMap(doc, "extensions"), "usgsPersonExtension"); ext != nil {
		if code := docString(ext, "orgCode"); code != "" {
			ids["fbms_code"] = code
		}
	}
	return ids
}
