package extract

import (
	"fmt"

	"github.com/linkedscience/crosswalk/internal/identify"
	"github.com/linkedscience/crosswalk/internal/model"
)

// SourceProfileInventory is the claim_source for staff-listing records.
const SourceProfileInventory = "USGS Profile Inventory"

// DefaultInventoryReference backs inventory claims when the record does not
// carry the listing page it was scraped from.
const DefaultInventoryReference = "https://www.usgs.gov/connect/staff-profiles"

// ProfileInventory maps one scraped staff-listing record (name, title,
// organization, email, telephone, profile link) into claims.
func ProfileInventory(rec map[string]any) ([]model.Claim, error) {
	name := docString(rec, "name")
	if name == "" {
		return nil, fmt.Errorf("profile inventory record missing name")
	}

	reference := docString(rec, "reference")
	if reference == "" {
		reference = DefaultInventoryReference
	}

	identifiers := map[string]string{"name": name}
	if email := docString(rec, "email"); email != "" {
		if id := identify.Recognize(email); id != nil && id.Scheme == model.SchemeEmail {
			identifiers["email"] = id.Value
		}
	}
	if profile := docString(rec, "profile"); profile != "" {
		if id := identify.Recognize(profile); id != nil && id.Scheme == model.SchemeProfile {
			identifiers["profile"] = id.Profile
		}
	}

	stub := model.Claim{
		ClaimCreated:       nowISO(),
		ClaimSource:        SourceProfileInventory,
		Reference:          reference,
		DateQualifier:      dateQualifier(rec, "date_cached"),
		SubjectInstanceOf:  string(model.TypePerson),
		SubjectLabel:       name,
		SubjectIdentifiers: identifiers,
	}

	var claims []model.Claim

	if title := docString(rec, "title"); title != "" {
		claim := stub
		claim.PropertyLabel = "job title"
		claim.ObjectInstanceOf = string(model.TypeFieldOfWork)
		claim.ObjectLabel = title
		claims = append(claims, claim)
	}

	if tel := docString(rec, "telephone"); tel != "" {
		claim := stub
		claim.PropertyLabel = "telephone number"
		claim.ObjectInstanceOf = string(model.TypeContactMethod)
		claim.ObjectLabel = tel
		claims = append(claims, claim)
	}

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

	return Fingerprint(claims), nil
}
