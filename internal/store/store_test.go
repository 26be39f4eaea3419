package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/linkedscience/crosswalk/internal/extract"
	"github.com/linkedscience/crosswalk/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testClaims() []model.Claim {
	return extract.Fingerprint([]model.Claim{{
		ClaimCreated:      "2026-01-01T00:00:00Z",
		ClaimSource:       "ScienceBase Directory",
		Reference:         "https://example.gov/person/1",
		SubjectInstanceOf: string(model.TypePerson),
		SubjectLabel:      "Jane Hydrologist",
		SubjectIdentifiers: map[string]string{
			"email": "jhydrologist@usgs.gov",
			"orcid": "0000-0001-2345-6789",
		},
		PropertyLabel:    "employed by",
		ObjectInstanceOf: string(model.TypeOrganization),
		ObjectLabel:      "U.S. Geological Survey",
		DateQualifier:    "2026-01-01T00:00:00Z",
	}, {
		ClaimCreated:      "2026-01-01T00:00:00Z",
		ClaimSource:       "ScienceBase Directory",
		Reference:         "https://example.gov/person/1",
		SubjectInstanceOf: string(model.TypePerson),
		SubjectLabel:      "Jane Hydrologist",
		SubjectIdentifiers: map[string]string{
			"email": "jhydrologist@usgs.gov",
		},
		PropertyLabel:    "job title",
		ObjectInstanceOf: string(model.TypeFieldOfWork),
		ObjectLabel:      "Research Hydrologist",
		DateQualifier:    "2026-01-01T00:00:00Z",
	}})
}

func TestSaveClaimsDeduplicates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	claims := testClaims()
	inserted, err := s.SaveClaims(ctx, claims)
	if err != nil {
		t.Fatalf("SaveClaims: %v", err)
	}
	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}

	// Same fingerprints again: nothing new.
	inserted, err = s.SaveClaims(ctx, claims)
	if err != nil {
		t.Fatalf("SaveClaims replay: %v", err)
	}
	if inserted != 0 {
		t.Errorf("inserted = %d on replay, want 0", inserted)
	}

	n, err := s.CountClaims(ctx)
	if err != nil {
		t.Fatalf("CountClaims: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestSaveClaimsRequiresUID(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SaveClaims(context.Background(), []model.Claim{{SubjectLabel: "raw"}})
	if err == nil {
		t.Fatal("expected error for a claim without a uid")
	}
}

func TestClaimsBySubjectIdentifier(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveClaims(ctx, testClaims()); err != nil {
		t.Fatalf("SaveClaims: %v", err)
	}

	byEmail, err := s.ClaimsBySubjectIdentifier(ctx, model.SchemeEmail, "jhydrologist@usgs.gov")
	if err != nil {
		t.Fatalf("ClaimsBySubjectIdentifier: %v", err)
	}
	if len(byEmail) != 2 {
		t.Fatalf("got %d claims by email, want 2", len(byEmail))
	}
	// Replay order is (claim_source, claim_id), the order assembly expects.
	if byEmail[0].ClaimID > byEmail[1].ClaimID {
		t.Error("claims not ordered by claim_id")
	}
	wantIDs := map[string]string{
		"email": "jhydrologist@usgs.gov",
		"orcid": "0000-0001-2345-6789",
	}
	if diff := cmp.Diff(wantIDs, byEmail[0].SubjectIdentifiers); diff != "" {
		t.Errorf("identifiers round trip mismatch (-want +got):\n%s", diff)
	}

	byORCID, err := s.ClaimsBySubjectIdentifier(ctx, model.SchemeORCID, "0000-0001-2345-6789")
	if err != nil {
		t.Fatalf("by orcid: %v", err)
	}
	if len(byORCID) != 1 {
		t.Errorf("got %d claims by orcid, want 1", len(byORCID))
	}

	if _, err := s.ClaimsBySubjectIdentifier(ctx, model.SchemeProfile, "x"); err == nil {
		t.Error("expected error for an unindexed scheme")
	}
}

func TestClaimsBySubjectLabel(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveClaims(ctx, testClaims()); err != nil {
		t.Fatalf("SaveClaims: %v", err)
	}
	claims, err := s.ClaimsBySubjectLabel(ctx, "Jane Hydrologist")
	if err != nil {
		t.Fatalf("ClaimsBySubjectLabel: %v", err)
	}
	if len(claims) != 2 {
		t.Errorf("got %d claims, want 2", len(claims))
	}
	if claims, _ := s.ClaimsBySubjectLabel(ctx, "Nobody"); len(claims) != 0 {
		t.Errorf("got %d claims for unknown label, want 0", len(claims))
	}
}

func TestClaimsFlattenedRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	claims := extract.Fingerprint([]model.Claim{{
		ClaimCreated:      "2026-01-01T00:00:00Z",
		ClaimSource:       "DOI",
		Reference:         "https://doi.org/10.3133/sir20261234",
		SubjectInstanceOf: string(model.TypeCreativeWork),
		SubjectLabel:      "Streamflow trends in the upper basin",
		SubjectIdentifiers: map[string]string{
			"doi": "10.3133/sir20261234",
		},
		PropertyLabel:    "published by",
		ObjectInstanceOf: string(model.TypeOrganization),
		ObjectLabel:      "U.S. Geological Survey",
		ObjectIdentifiers: map[string]string{
			"grid": "grid.2865.9",
		},
		DateQualifier: "2026-01-01T00:00:00Z",
	}})
	if _, err := s.SaveClaims(ctx, claims); err != nil {
		t.Fatalf("SaveClaims: %v", err)
	}

	got, err := s.ClaimsBySubjectIdentifier(ctx, model.SchemeDOI, "10.3133/sir20261234")
	if err != nil {
		t.Fatalf("ClaimsBySubjectIdentifier: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d claims, want 1", len(got))
	}
	want := map[string]string{
		"subject_identifier_doi": "10.3133/sir20261234",
		"object_identifier_grid": "grid.2865.9",
	}
	if diff := cmp.Diff(want, got[0].Flattened); diff != "" {
		t.Errorf("flattened fields mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sum := &model.PublicationSummary{
		URI:             "https://pubs.er.usgs.gov/publication/sir20261234",
		WarehouseID:     "70012345",
		Title:           "Streamflow trends in the upper basin",
		DOI:             "10.3133/sir20261234",
		Abstract:        "We analyze fifty years of gage records in detail.",
		Publisher:       "U.S. Geological Survey",
		PublicationYear: "2026",
		PublicationType: "Report",
		SummaryCreated:  "2026-01-01T00:00:00Z",
	}
	sentences := []model.Sentence{
		{URI: sum.URI, Source: "Publications Warehouse", Position: 0, Text: "We analyze fifty years of gage records in detail."},
	}

	if err := s.SaveSummary(ctx, sum, sentences); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}

	got, gotSentences, err := s.Summary(ctx, sum.URI)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if diff := cmp.Diff(sum, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(sentences, gotSentences); diff != "" {
		t.Errorf("sentences mismatch (-want +got):\n%s", diff)
	}

	// Re-saving replaces, not duplicates.
	sum.Abstract = "Updated abstract text for the second harvest run."
	if err := s.SaveSummary(ctx, sum, sentences); err != nil {
		t.Fatalf("SaveSummary update: %v", err)
	}
	got, gotSentences, err = s.Summary(ctx, sum.URI)
	if err != nil {
		t.Fatalf("Summary after update: %v", err)
	}
	if got.Abstract != sum.Abstract {
		t.Errorf("Abstract = %q, want updated value", got.Abstract)
	}
	if len(gotSentences) != 1 {
		t.Errorf("got %d sentences after update, want 1", len(gotSentences))
	}
}

func TestPersonRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &model.PersonRecord{
		URI:         "https://example.gov/person/1",
		DisplayName: "Jane Hydrologist",
		Aliases:     []string{"J. Hydrologist"},
		Email:       "jhydrologist@usgs.gov",
		ORCID:       "0000-0001-2345-6789",
		Active:      true,
		JobTitle:    "Research Hydrologist",
		OrgName:     "Water Resources Mission Area",
		OrgURI:      "https://example.gov/organization/17256",
		Identifiers: []model.PersonIdentifier{
			{Type: "ORCID", Key: "0000-0001-2345-6789"},
		},
	}

	if err := s.SavePerson(ctx, rec); err != nil {
		t.Fatalf("SavePerson: %v", err)
	}

	got, err := s.Person(ctx, rec.URI)
	if err != nil {
		t.Fatalf("Person: %v", err)
	}
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("person mismatch (-want +got):\n%s", diff)
	}

	// Re-saving replaces the row.
	rec.Active = false
	rec.Identifiers = append(rec.Identifiers, model.PersonIdentifier{Type: "WikiData", Key: "Q100"})
	if err := s.SavePerson(ctx, rec); err != nil {
		t.Fatalf("SavePerson update: %v", err)
	}
	got, err = s.Person(ctx, rec.URI)
	if err != nil {
		t.Fatalf("Person after update: %v", err)
	}
	if got.Active {
		t.Error("Active = true, want updated false")
	}
	if len(got.Identifiers) != 2 {
		t.Errorf("got %d identifiers, want 2", len(got.Identifiers))
	}
}

func TestPersonRequiresURI(t *testing.T) {
	s := openTestStore(t)
	if err := s.SavePerson(context.Background(), &model.PersonRecord{DisplayName: "No URI"}); err == nil {
		t.Fatal("expected error for a record without a uri")
	}
}

func TestPersonUnknownURI(t *testing.T) {
	s := openTestStore(t)
	rec, err := s.Person(context.Background(), "https://example.gov/person/none")
	if err != nil || rec != nil {
		t.Errorf("Person = %+v, %v; want nil, nil", rec, err)
	}
}

func TestSummaryUnknownURI(t *testing.T) {
	s := openTestStore(t)
	sum, sentences, err := s.Summary(context.Background(), "https://example.gov/nope")
	if err != nil || sum != nil || sentences != nil {
		t.Errorf("Summary = %+v, %v, %v; want nil, nil, nil", sum, sentences, err)
	}
}
