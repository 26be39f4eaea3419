package extract

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/linkedscience/crosswalk/internal/model"
)

func TestFingerprintAssignsDeterministicKeys(t *testing.T) {
	claim := model.Claim{
		ClaimSource:        "ScienceBase Directory",
		SubjectInstanceOf:  string(model.TypePerson),
		SubjectLabel:       "Jane Hydrologist",
		SubjectIdentifiers: map[string]string{"email": "jhydrologist@usgs.gov"},
		PropertyLabel:      "employed by",
		ObjectInstanceOf:   string(model.TypeOrganization),
		ObjectLabel:        "U.S. Geological Survey",
		ObjectIdentifiers:  map[string]string{"name": "U.S. Geological Survey"},
	}

	out := Fingerprint([]model.Claim{claim})
	if len(out) != 1 {
		t.Fatalf("got %d claims, want 1", len(out))
	}

	wantID := "ScienceBase Directory:Jane Hydrologist:employed by:U.S. Geological Survey"
	if out[0].ClaimID != wantID {
		t.Errorf("ClaimID = %q, want %q", out[0].ClaimID, wantID)
	}
	sum := md5.Sum([]byte(wantID))
	if out[0].ClaimUID != hex.EncodeToString(sum[:]) {
		t.Errorf("ClaimUID = %q, want md5 of claim_id", out[0].ClaimUID)
	}

	wantFlat := map[string]string{
		"subject_identifier_email": "jhydrologist@usgs.gov",
		"object_identifier_name":   "U.S. Geological Survey",
	}
	if diff := cmp.Diff(wantFlat, out[0].Flattened); diff != "" {
		t.Errorf("Flattened mismatch (-want +got):\n%s", diff)
	}

	// Same input, same keys.
	again := Fingerprint([]model.Claim{claim})
	if again[0].ClaimUID != out[0].ClaimUID {
		t.Error("ClaimUID differs across runs")
	}
}

func TestFingerprintedClaimSerializesFlattenedFields(t *testing.T) {
	claims := Fingerprint([]model.Claim{{
		ClaimSource:        "ScienceBase Directory",
		SubjectInstanceOf:  string(model.TypePerson),
		SubjectLabel:       "Jane Hydrologist",
		SubjectIdentifiers: map[string]string{"email": "jhydrologist@usgs.gov"},
		PropertyLabel:      "employed by",
		ObjectInstanceOf:   string(model.TypeOrganization),
		ObjectLabel:        "U.S. Geological Survey",
		ObjectIdentifiers:  map[string]string{"name": "U.S. Geological Survey"},
	}})

	data, err := json.Marshal(claims[0])
	if err != nil {
		t.Fatalf("marshal claim: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal claim: %v", err)
	}

	if got := fields["subject_identifier_email"]; got != "jhydrologist@usgs.gov" {
		t.Errorf("subject_identifier_email = %v, want jhydrologist@usgs.gov", got)
	}
	if got := fields["object_identifier_name"]; got != "U.S. Geological Survey" {
		t.Errorf("object_identifier_name = %v, want U.S. Geological Survey", got)
	}
	// The nested maps stay alongside the scalars.
	if _, ok := fields["subject_identifiers"]; !ok {
		t.Error("nested subject_identifiers missing from serialized claim")
	}
}

func TestFingerprintIdempotent(t *testing.T) {
	claims := Fingerprint([]model.Claim{{
		ClaimSource:   "ORCID",
		SubjectLabel:  "Jane",
		PropertyLabel: "author of",
		ObjectLabel:   "A Paper",
	}})
	twice := Fingerprint(claims)
	if diff := cmp.Diff(claims, twice); diff != "" {
		t.Errorf("Fingerprint not idempotent (-first +second):\n%s", diff)
	}
}

func TestFingerprintDropsEmptyObject(t *testing.T) {
	out := Fingerprint([]model.Claim{
		{ClaimSource: "ORCID", SubjectLabel: "Jane", PropertyLabel: "author of", ObjectLabel: "  "},
		{ClaimSource: "ORCID", SubjectLabel: "Jane", PropertyLabel: "author of", ObjectLabel: "A Paper"},
	})
	if len(out) != 1 {
		t.Fatalf("got %d claims, want 1 (blank object dropped)", len(out))
	}
	if out[0].ObjectLabel != "A Paper" {
		t.Errorf("kept the wrong claim: %+v", out[0])
	}
}

func TestSwapPreservesProvenance(t *testing.T) {
	claims := Fingerprint([]model.Claim{{
		ClaimSource:        "ORCID",
		Reference:          "https://orcid.org/0000-0001-2345-6789",
		DateQualifier:      "2026-01-01",
		SubjectInstanceOf:  string(model.TypePerson),
		SubjectLabel:       "Jane",
		SubjectIdentifiers: map[string]string{"orcid": "0000-0001-2345-6789"},
		PropertyLabel:      "employed by",
		ObjectInstanceOf:   string(model.TypeOrganization),
		ObjectLabel:        "USGS",
	}})
	forward := claims[0]
	inverse := Fingerprint([]model.Claim{forward.Swap("employs person")})[0]

	if inverse.Reference != forward.Reference {
		t.Error("swap lost the reference")
	}
	if inverse.DateQualifier != forward.DateQualifier {
		t.Error("swap lost the date qualifier")
	}
	if inverse.SubjectLabel != "USGS" || inverse.ObjectLabel != "Jane" {
		t.Errorf("swap did not exchange sides: %+v", inverse)
	}
	if inverse.ObjectIdentifiers["orcid"] != "0000-0001-2345-6789" {
		t.Error("swap lost subject identifiers on the object side")
	}
	if inverse.ClaimUID == forward.ClaimUID {
		t.Error("inverse claim shares the forward claim's uid")
	}
}
