package assemble

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/linkedscience/crosswalk/internal/model"
)

func personClaim(source, id, subject, property, object string, subjectIDs map[string]string) model.Claim {
	return model.Claim{
		ClaimID:            id,
		ClaimSource:        source,
		Reference:          "https://example.gov/ref/" + source,
		SubjectInstanceOf:  string(model.TypePerson),
		SubjectLabel:       subject,
		SubjectIdentifiers: subjectIDs,
		PropertyLabel:      property,
		ObjectInstanceOf:   string(model.TypeOrganization),
		ObjectLabel:        object,
	}
}

func TestAssemblePerson(t *testing.T) {
	claims := []model.Claim{
		personClaim("ORCID", "b", "Jane Q. Hydrologist", "employed by", "U.S. Geological Survey",
			map[string]string{"orcid": "0000-0001-2345-6789"}),
		personClaim("ScienceBase Directory", "a", "Jane Hydrologist", "employed by", "U.S. Geological Survey",
			map[string]string{"email": "jhydrologist@usgs.gov", "directory_uri": "https://www.sciencebase.gov/directory/person/1234"}),
		personClaim("ScienceBase Directory", "c", "Jane Hydrologist", "job title", "Research Hydrologist", nil),
	}

	got := Assemble(claims, model.TypePerson, DefaultConfig(), nil)
	if got == nil {
		t.Fatal("Assemble returned nil for configured type")
	}

	// Lexicographic (claim_source, claim_id) order puts ORCID first, so its
	// subject label becomes the canonical name.
	if got.Name != "Jane Q. Hydrologist" {
		t.Errorf("Name = %q, want %q", got.Name, "Jane Q. Hydrologist")
	}
	if diff := cmp.Diff([]string{"Jane Hydrologist"}, got.AlternateNames); diff != "" {
		t.Errorf("AlternateNames mismatch (-want +got):\n%s", diff)
	}

	wantIDs := map[string]string{
		"orcid":         "0000-0001-2345-6789",
		"email":         "jhydrologist@usgs.gov",
		"directory_uri": "https://www.sciencebase.gov/directory/person/1234",
	}
	if diff := cmp.Diff(wantIDs, got.Identifiers); diff != "" {
		t.Errorf("Identifiers mismatch (-want +got):\n%s", diff)
	}

	// Email outranks orcid for the entity id.
	if got.EntityID == "" || got.EntityID[:6] != "email_" {
		t.Errorf("EntityID = %q, want email-derived id", got.EntityID)
	}

	if diff := cmp.Diff([]string{"ORCID", "ScienceBase Directory"}, got.Sources); diff != "" {
		t.Errorf("Sources mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Research Hydrologist"}, got.Facets["job title"]); diff != "" {
		t.Errorf("job title facet mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"U.S. Geological Survey"}, got.Facets["employed by"]); diff != "" {
		t.Errorf("employed by facet mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleNameIdentifierWins(t *testing.T) {
	claims := []model.Claim{
		personClaim("ORCID", "a", "J. Q. Hydrologist", "employed by", "USGS", nil),
		personClaim("USGS Profile Inventory", "b", "Jane Hydrologist", "employed by", "USGS",
			map[string]string{"name": "Jane Hydrologist"}),
	}

	got := Assemble(claims, model.TypePerson, DefaultConfig(), nil)
	if got == nil {
		t.Fatal("Assemble returned nil")
	}
	if got.Name != "Jane Hydrologist" {
		t.Errorf("Name = %q, want the name identifier to win", got.Name)
	}
	if diff := cmp.Diff([]string{"J. Q. Hydrologist"}, got.AlternateNames); diff != "" {
		t.Errorf("AlternateNames mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleOrderIndependent(t *testing.T) {
	a := personClaim("ORCID", "1", "Jane", "employed by", "USGS",
		map[string]string{"orcid": "0000-0001-2345-6789", "email": "first@usgs.gov"})
	b := personClaim("ScienceBase Directory", "2", "Jane", "employed by", "USGS",
		map[string]string{"email": "second@usgs.gov"})

	forward := Assemble([]model.Claim{a, b}, model.TypePerson, DefaultConfig(), nil)
	reverse := Assemble([]model.Claim{b, a}, model.TypePerson, DefaultConfig(), nil)

	if diff := cmp.Diff(forward, reverse); diff != "" {
		t.Errorf("assembly depends on input order:\n%s", diff)
	}
	// ORCID sorts before ScienceBase Directory, so its email is first seen.
	if forward.Identifiers["email"] != "first@usgs.gov" {
		t.Errorf("email = %q, want first@usgs.gov", forward.Identifiers["email"])
	}
}

func TestAssembleUnconfiguredType(t *testing.T) {
	claims := []model.Claim{{
		SubjectInstanceOf: string(model.TypeUnlinkedTerm),
		SubjectLabel:      "geomorphology",
		PropertyLabel:     "expertise of",
		ObjectLabel:       "Jane",
	}}
	if got := Assemble(claims, model.TypeUnlinkedTerm, DefaultConfig(), nil); got != nil {
		t.Errorf("Assemble = %+v, want nil for unconfigured type", got)
	}
}

func TestAssembleNoMatchingClaims(t *testing.T) {
	claims := []model.Claim{{
		ClaimID:           "1",
		ClaimSource:       "ScienceBase Directory",
		SubjectInstanceOf: string(model.TypePerson),
		SubjectLabel:      "Jane",
		PropertyLabel:     "job title",
		ObjectInstanceOf:  string(model.TypeFieldOfWork),
		ObjectLabel:       "Research Hydrologist",
	}}
	if got := Assemble(claims, model.TypeOrganization, DefaultConfig(), nil); got != nil {
		t.Errorf("Assemble = %+v, want nil when neither side matches the type", got)
	}
}

func TestAssembleObjectSideClaims(t *testing.T) {
	// The organization appears only as the object of publication claims.
	claims := []model.Claim{{
		ClaimID:           "1",
		ClaimSource:       "DOI",
		Reference:         "https://doi.org/10.3133/sir20261234",
		SubjectInstanceOf: string(model.TypeCreativeWork),
		SubjectLabel:      "Streamflow trends in the upper basin",
		PropertyLabel:     "published by",
		ObjectInstanceOf:  string(model.TypeOrganization),
		ObjectLabel:       "U.S. Geological Survey",
		ObjectIdentifiers: map[string]string{"grid": "grid.2865.9"},
	}, {
		ClaimID:           "2",
		ClaimSource:       "ORCID",
		SubjectInstanceOf: string(model.TypePerson),
		SubjectLabel:      "Jane Hydrologist",
		PropertyLabel:     "employed by",
		ObjectInstanceOf:  string(model.TypeOrganization),
		ObjectLabel:       "USGS",
	}}

	got := Assemble(claims, model.TypeOrganization, DefaultConfig(), nil)
	if got == nil {
		t.Fatal("Assemble returned nil for an entity appearing only as object")
	}
	// DOI sorts before ORCID, so its object label becomes the name.
	if got.Name != "U.S. Geological Survey" {
		t.Errorf("Name = %q, want U.S. Geological Survey", got.Name)
	}
	if got.Identifiers["grid"] != "grid.2865.9" {
		t.Errorf("grid = %q, want object-side identifier merged", got.Identifiers["grid"])
	}
	if diff := cmp.Diff([]string{"DOI", "ORCID"}, got.Sources); diff != "" {
		t.Errorf("Sources mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleCreativeWorkSourceDoc(t *testing.T) {
	claims := []model.Claim{{
		ClaimID:           "1",
		ClaimSource:       "Publications Warehouse",
		SubjectInstanceOf: string(model.TypeCreativeWork),
		SubjectLabel:      "Streamflow trends in the upper basin",
		SubjectIdentifiers: map[string]string{
			"doi": "https://doi.org/10.5066/P9XXXYYY",
		},
		PropertyLabel:    "authored by",
		ObjectInstanceOf: string(model.TypePerson),
		ObjectLabel:      "Jane Hydrologist",
	}}
	doc := map[string]any{
		"title":           "Streamflow trends in the upper basin",
		"abstract":        "We analyze fifty years of gage records.",
		"publicationType": "Report",
		"ignored":         "never copied",
	}

	got := Assemble(claims, model.TypeCreativeWork, DefaultConfig(), doc)
	if got == nil {
		t.Fatal("Assemble returned nil")
	}
	if got.Category != "publication" {
		t.Errorf("Category = %q, want %q", got.Category, "publication")
	}
	wantFields := map[string]string{
		"title":    "Streamflow trends in the upper basin",
		"abstract": "We analyze fifty years of gage records.",
	}
	if diff := cmp.Diff(wantFields, got.SourceFields); diff != "" {
		t.Errorf("SourceFields mismatch (-want +got):\n%s", diff)
	}
	if got.EntityID == "" || got.EntityID[:4] != "doi_" {
		t.Errorf("EntityID = %q, want doi-derived id", got.EntityID)
	}
}

func TestAssembleNoIdentifierLeavesEntityIDEmpty(t *testing.T) {
	claims := []model.Claim{personClaim("ORCID", "1", "Jane", "job title", "Hydrologist", nil)}
	got := Assemble(claims, model.TypePerson, DefaultConfig(), nil)
	if got == nil {
		t.Fatal("Assemble returned nil")
	}
	if got.EntityID != "" {
		t.Errorf("EntityID = %q, want empty without addressable identifiers", got.EntityID)
	}
}
