package extract

import (
	"testing"
)

func TestProfileInventory(t *testing.T) {
	rec := map[string]any{
		"name":              "Jane Hydrologist",
		"title":             "Research Hydrologist",
		"email":             "jhydrologist@usgs.gov",
		"telephone":         "+1-555-0100",
		"profile":           "https://www.usgs.gov/staff-profiles/jane-hydrologist",
		"organization_name": "Upper Basin Water Science Center",
		"organization_link": "https://www.usgs.gov/centers/upper-basin",
		"reference":         "https://www.usgs.gov/connect/staff-profiles?page=3",
		"date_cached":       "2026-08-20T00:00:00Z",
	}

	claims, err := ProfileInventory(rec)
	if err != nil {
		t.Fatalf("ProfileInventory: %v", err)
	}
	// job title + telephone + employment pair
	if len(claims) != 4 {
		t.Fatalf("got %d claims, want 4", len(claims))
	}

	for _, c := range claims {
		if c.ClaimSource != SourceProfileInventory {
			t.Errorf("ClaimSource = %q", c.ClaimSource)
		}
		if c.Reference != "https://www.usgs.gov/connect/staff-profiles?page=3" {
			t.Errorf("Reference = %q, want the listing page", c.Reference)
		}
	}

	title := claimByProperty(t, claims, "job title")
	if title.SubjectIdentifiers["email"] != "jhydrologist@usgs.gov" {
		t.Errorf("email = %q", title.SubjectIdentifiers["email"])
	}
	if title.SubjectIdentifiers["profile"] != "https://www.usgs.gov/staff-profiles/jane-hydrologist" {
		t.Errorf("profile = %q", title.SubjectIdentifiers["profile"])
	}

	tel := claimByProperty(t, claims, "telephone number")
	if tel.ObjectLabel != "+1-555-0100" {
		t.Errorf("telephone = %q", tel.ObjectLabel)
	}

	employed := claimByProperty(t, claims, "employed by")
	if employed.ObjectIdentifiers["url"] != "https://www.usgs.gov/centers/upper-basin" {
		t.Errorf("organization url = %q", employed.ObjectIdentifiers["url"])
	}
	if c := claimByProperty(t, claims, "employs person"); c.ObjectLabel != "Jane Hydrologist" {
		t.Errorf("inverse object = %q", c.ObjectLabel)
	}
}

func TestProfileInventoryDefaultReference(t *testing.T) {
	claims, err := ProfileInventory(map[string]any{
		"name":  "Jane Hydrologist",
		"title": "Research Hydrologist",
	})
	if err != nil {
		t.Fatalf("ProfileInventory: %v", err)
	}
	if claims[0].Reference != DefaultInventoryReference {
		t.Errorf("Reference = %q, want default", claims[0].Reference)
	}
}

func TestProfileInventoryMissingName(t *testing.T) {
	if _, err := ProfileInventory(map[string]any{"title": "Research Hydrologist"}); err == nil {
		t.Error("expected error without name")
	}
}

func TestProfilePageExpertise(t *testing.T) {
	rec := map[string]any{
		"display_name":      "Jane Hydrologist",
		"profile":           "https://www.usgs.gov/staff-profiles/jane-hydrologist",
		"email":             "jhydrologist@usgs.gov",
		"organization_name": "Upper Basin Water Science Center",
		"expertise":         []any{"Hydrology", "Geomorphology"},
	}

	claims, err := ProfilePage(rec)
	if err != nil {
		t.Fatalf("ProfilePage: %v", err)
	}
	// employment pair + two expertise claims
	if len(claims) != 4 {
		t.Fatalf("got %d claims, want 4", len(claims))
	}

	expertise := claimByProperty(t, claims, "expertise")
	if expertise.ObjectQualifier != QualifierSelfAsserted {
		t.Errorf("ObjectQualifier = %q", expertise.ObjectQualifier)
	}
	if expertise.Reference != rec["profile"] {
		t.Errorf("Reference = %q, want the profile page", expertise.Reference)
	}
}

func TestProfilePageExpertiseRequiresIdentifier(t *testing.T) {
	rec := map[string]any{
		"display_name": "Jane Hydrologist",
		"profile":      "https://www.usgs.gov/staff-profiles/jane-hydrologist",
		"expertise":    []any{"Hydrology"},
	}

	claims, err := ProfilePage(rec)
	if err != nil {
		t.Fatalf("ProfilePage: %v", err)
	}
	for _, c := range claims {
		if c.PropertyLabel == "expertise" {
			t.Error("expertise claim emitted without a verifiable owner identifier")
		}
	}
}

func TestProfilePageORCIDEnablesExpertise(t *testing.T) {
	rec := map[string]any{
		"display_name": "Jane Hydrologist",
		"profile":      "https://www.usgs.gov/staff-profiles/jane-hydrologist",
		"orcid":        "https://orcid.org/0000-0001-2345-6789",
		"expertise":    []any{"Hydrology"},
	}

	claims, err := ProfilePage(rec)
	if err != nil {
		t.Fatalf("ProfilePage: %v", err)
	}
	expertise := claimByProperty(t, claims, "expertise")
	if expertise.SubjectIdentifiers["orcid"] != "0000-0001-2345-6789" {
		t.Errorf("orcid = %q", expertise.SubjectIdentifiers["orcid"])
	}
}

func TestProfilePageMissingRequired(t *testing.T) {
	if _, err := ProfilePage(map[string]any{"display_name": "Jane"}); err == nil {
		t.Error("expected error without profile URL")
	}
}
