package extract

import (
	"fmt"

	"github.com/linkedscience/crosswalk/internal/identify"
	"github.com/linkedscience/crosswalk/internal/model"
)

// SourceProfilePage is the claim_source for scraped staff-profile pages.
const SourceProfilePage = "USGS Profile Page"

// QualifierSelfAsserted marks statements a person makes about themselves on
// their own profile page.
const QualifierSelfAsserted = "subject personal assertion"

// ProfilePage maps a scraped staff-profile page record into claims:
// the employment pair, plus one expertise claim per self-declared keyword.
// Expertise claims are emitted only when the page owner has a verifiable
// identifier (email or ORCID); a page with no identifiable owner produces no
// identity-bearing claims.
func ProfilePage(rec map[string]any) ([]model.Claim, error) {
	name := docString(rec, "display_name")
	profileURL := docString(rec, "profile")
	if name == "" || profileURL == "" {
		return nil, fmt.Errorf("profile page record missing display_name or profile")
	}

	identifiers := map[string]string{
		"name":    name,
		"profile": profileURL,
	}
	if email := docString(rec, "email"); email != "" {
		if id := identify.Recognize(email); id != nil && id.Scheme == model.SchemeEmail {
			identifiers["email"] = id.Value
		}
	}
	if orcid := docString(rec, "orcid"); orcid != "" {
		if id := identify.Recognize(orcid); id != nil && id.Scheme == model.SchemeORCID {
			identifiers["orcid"] = id.Value
		}
	}

	stub := model.Claim{
		ClaimCreated:       nowISO(),
		ClaimSource:        SourceProfilePage,
		Reference:          profileURL,
		DateQualifier:      dateQualifier(rec, "date_cached"),
		SubjectInstanceOf:  string(model.TypePerson),
		SubjectLabel:       name,
		SubjectIdentifiers: identifiers,
	}

	var claims []model.Claim

	if orgName := docString(rec, "organization_name"); orgName != "" {
		claim := stub
		claim.PropertyLabel = "employed by"
		claim.ObjectInstanceOf = string(model.TypeOrganization)
		claim.ObjectLabel = orgName
		if link := docString(rec, "organization_link"); link != "" {
			claim.ObjectIdentifiers = map[string]string{"url": link}
		}
		claims = append(claims, claim, claim.Swap("employs person"))
	}

	_, hasEmail := identifiers["email"]
	_, hasORCID := identifiers["orcid"]
	if hasEmail || hasORCID {
		for _, term := range docStrings(rec, "expertise") {
			claim := stub
			claim.PropertyLabel = "expertise"
			claim.ObjectInstanceOf = string(model.TypeUnlinkedTerm)
			claim.ObjectLabel = term
			claim.ObjectQualifier = QualifierSelfAsserted
			claims = append(claims, claim)
		}
	}

	return Fingerprint(claims), nil
}
