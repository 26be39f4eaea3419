// Package reconcile anchors partial person references to authoritative
// directory records and repairs the controlled identifier schemes on those
// records. It never guesses: an ambiguous lookup yields no anchor rather
// than a probably-wrong one.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/linkedscience/crosswalk/internal/model"
)

// Identifier types the reconciler owns on a directory record. Entries of
// these types are rebuilt wholesale on every run; all other types are left
// untouched.
const (
	idTypeORCID    = "ORCID"
	idTypeWikiData = "WikiData"
)

// DirectoryClient looks up person records in the authoritative directory.
type DirectoryClient interface {
	// PersonByURI fetches a single record by its directory URI. A missing
	// record is (nil, nil), not an error.
	PersonByURI(ctx context.Context, uri string) (*model.PersonRecord, error)
	// PersonsByEmail returns every record whose email matches.
	PersonsByEmail(ctx context.Context, email string) ([]model.PersonRecord, error)
}

// WikiDataCandidate is one human returned by an ORCID-filtered query.
type WikiDataCandidate struct {
	QID   string
	Label string
}

// WikiDataClient resolves WikiData items for people.
type WikiDataClient interface {
	HumansByORCID(ctx context.Context, orcid string) ([]WikiDataCandidate, error)
}

// Reconciler resolves person references against the directory and WikiData.
type Reconciler struct {
	dir DirectoryClient
	wd  WikiDataClient // nil disables QID resolution
	cfg model.ReconcileConfig
}

func New(dir DirectoryClient, wd WikiDataClient, cfg model.ReconcileConfig) *Reconciler {
	return &Reconciler{dir: dir, wd: wd, cfg: cfg}
}

// Reconcile locates the unique directory record for ref and rebuilds the
// ORCID and WikiData identifier entries on it. The bool reports whether the
// rebuilt identifier list is non-empty, i.e. whether the caller has
// something to write back.
//
// Zero or multiple directory matches resolve to (nil, false, nil). A failed
// WikiData query degrades to a record without a QID rather than an error.
func (r *Reconciler) Reconcile(ctx context.Context, ref model.PersonReference) (*model.PersonRecord, bool, error) {
	rec, err := r.locate(ctx, ref)
	if err != nil {
		return nil, false, err
	}
	if rec == nil {
		return nil, false, nil
	}

	// A caller-supplied ORCID wins over whatever the directory has on file.
	orcid := ref.ORCID
	if orcid == "" {
		orcid = rec.ORCID
	}

	var rebuilt []model.PersonIdentifier
	if orcid != "" {
		rebuilt = append(rebuilt, model.PersonIdentifier{Type: idTypeORCID, Key: orcid})
		qid := ref.WikiDataID
		if qid == "" {
			qid = r.resolveQID(ctx, orcid, rec)
		}
		if qid != "" {
			rebuilt = append(rebuilt, model.PersonIdentifier{Type: idTypeWikiData, Key: qid})
		}
	}

	kept := rec.Identifiers[:0:0]
	for _, id := range rec.Identifiers {
		if id.Type != idTypeORCID && id.Type != idTypeWikiData {
			kept = append(kept, id)
		}
	}
	rec.Identifiers = append(kept, rebuilt...)
	return rec, len(rebuilt) > 0, nil
}

func (r *Reconciler) locate(ctx context.Context, ref model.PersonReference) (*model.PersonRecord, error) {
	if ref.DirectoryURI != "" {
		rec, err := r.dir.PersonByURI(ctx, ref.DirectoryURI)
		if err != nil {
			return nil, fmt.Errorf("directory lookup %s: %w", ref.DirectoryURI, err)
		}
		return rec, nil
	}
	if ref.Email == "" {
		return nil, nil
	}

	rec, err := r.lookupEmail(ctx, ref.Email)
	if err != nil || rec != nil {
		return rec, err
	}

	// Contractors keep their directory record under the contractor domain
	// even when sources carry the primary-domain address.
	local, domain, ok := strings.Cut(strings.ToLower(ref.Email), "@")
	if ok && domain == r.cfg.PrimaryDomain && r.cfg.ContractorDomain != "" {
		return r.lookupEmail(ctx, local+"@"+r.cfg.ContractorDomain)
	}
	return nil, nil
}

// lookupEmail returns a record only on an exactly-one match.
func (r *Reconciler) lookupEmail(ctx context.Context, email string) (*model.PersonRecord, error) {
	matches, err := r.dir.PersonsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("directory search %s: %w", email, err)
	}
	if len(matches) != 1 {
		return nil, nil
	}
	return &matches[0], nil
}

// resolveQID picks the WikiData item whose label best matches the record's
// display name or one of its aliases, provided the similarity strictly
// exceeds the configured threshold. Any query failure or ambiguity resolves
// to "".
func (r *Reconciler) resolveQID(ctx context.Context, orcid string, rec *model.PersonRecord) string {
	if r.wd == nil || rec.DisplayName == "" {
		return ""
	}
	candidates, err := r.wd.HumansByORCID(ctx, orcid)
	if err != nil {
		return ""
	}
	names := append([]string{rec.DisplayName}, rec.Aliases...)
	bestQID := ""
	bestScore := 0
	for _, c := range candidates {
		for _, name := range names {
			if score := TokenSetRatio(name, c.Label); score > bestScore {
				bestScore = score
				bestQID = c.QID
			}
		}
	}
	if bestScore <= r.cfg.NameMatchThreshold {
		return ""
	}
	return bestQID
}
