// Package extract turns already-fetched source documents into canonical
// claims. Each extractor is a pure function from one source's native record
// shape to a claim list; Fingerprint assigns the deterministic keys that let
// claim streams be appended into a store with natural deduplication.
package extract

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/linkedscience/crosswalk/internal/model"
)

// Fingerprint drops invalid claims and assigns claim_id / claim_uid plus the
// flattened identifier fields. Calling it a second time on its own output is
// a no-op: ids are recomputed from the same fields and flattening replaces
// the same keys.
func Fingerprint(claims []model.Claim) []model.Claim {
	out := make([]model.Claim, 0, len(claims))
	for _, claim := range claims {
		if strings.TrimSpace(claim.ObjectLabel) == "" {
			// Data-quality backstop, not an error.
			continue
		}

		claim.ClaimID = strings.Join([]string{
			claim.ClaimSource,
			claim.SubjectLabel,
			claim.PropertyLabel,
			claim.ObjectLabel,
		}, ":")
		claim.ClaimUID = hashString(claim.ClaimID)

		claim.Flattened = make(map[string]string, len(claim.SubjectIdentifiers)+len(claim.ObjectIdentifiers))
		for k, v := range claim.SubjectIdentifiers {
			claim.Flattened["subject_identifier_"+k] = v
		}
		for k, v := range claim.ObjectIdentifiers {
			claim.Flattened["object_identifier_"+k] = v
		}

		out = append(out, claim)
	}
	return out
}

// hashString is the content-addressed key function shared by claim uids and
// entity ids. md5 is used as a stable 128-bit fingerprint, not for security.
func hashString(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// nowISO is the claim_created / fallback date_qualifier timestamp.
func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
