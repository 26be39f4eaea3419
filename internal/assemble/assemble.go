package assemble

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/linkedscience/crosswalk/internal/model"
)

// idPriority orders the identifier schemes considered when deriving an
// entity id. The first scheme present wins.
var idPriority = []model.Scheme{model.SchemeEmail, model.SchemeORCID, model.SchemeDOI}

// claimView is one claim seen from the side the target entity occupies.
// Subject-side views carry the claim's property/object for facet collection;
// object-side views only contribute the entity's label and identifiers.
type claimView struct {
	claim       model.Claim
	label       string
	identifiers map[string]string
	subjectSide bool
}

// Assemble folds the claims about one entity into an Entity of targetType.
// The entity may appear on either side of a claim: labels and identifiers
// are taken from whichever side matches targetType, with the subject side
// winning when both sides do. Claims matching on neither side are ignored.
// sourceDoc, when non-nil, supplies the raw fields named by the type
// configuration. Returns nil when targetType has no configuration or no
// claim matches.
//
// Claims are scanned in lexicographic (claim_source, claim_id) order so the
// merge does not depend on input ordering. Identifiers are first seen wins
// under that ordering.
func Assemble(claims []model.Claim, targetType model.EntityType, cfg Config, sourceDoc map[string]any) *model.Entity {
	tc, ok := cfg[targetType]
	if !ok {
		return nil
	}

	views := make([]claimView, 0, len(claims))
	for _, c := range claims {
		switch {
		case c.SubjectInstanceOf == string(targetType):
			views = append(views, claimView{
				claim:       c,
				label:       c.SubjectLabel,
				identifiers: c.SubjectIdentifiers,
				subjectSide: true,
			})
		case c.ObjectInstanceOf == string(targetType):
			views = append(views, claimView{
				claim:       c,
				label:       c.ObjectLabel,
				identifiers: c.ObjectIdentifiers,
			})
		}
	}
	if len(views) == 0 {
		return nil
	}
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].claim.ClaimSource != views[j].claim.ClaimSource {
			return views[i].claim.ClaimSource < views[j].claim.ClaimSource
		}
		return views[i].claim.ClaimID < views[j].claim.ClaimID
	})

	facetSet := make(map[string]bool, len(tc.Facets))
	for _, f := range tc.Facets {
		facetSet[f] = true
	}

	e := &model.Entity{
		InstanceOf:  string(targetType),
		Name:        views[0].label,
		Identifiers: map[string]string{},
		Category:    tc.Category,
		Facets:      map[string][]string{},
	}

	refs := map[string]bool{}
	sources := map[string]bool{}
	altNames := map[string]bool{}
	seenFacet := map[string]map[string]bool{}

	for _, v := range views {
		c := v.claim
		sources[c.ClaimSource] = true
		if c.Reference != "" {
			refs[c.Reference] = true
		}
		if v.label != "" && v.label != e.Name {
			altNames[v.label] = true
		}
		for scheme, value := range v.identifiers {
			if value == "" {
				continue
			}
			if _, dup := e.Identifiers[scheme]; !dup {
				e.Identifiers[scheme] = value
			}
		}
		if v.subjectSide && facetSet[c.PropertyLabel] && c.ObjectLabel != "" {
			if seenFacet[c.PropertyLabel] == nil {
				seenFacet[c.PropertyLabel] = map[string]bool{}
			}
			if !seenFacet[c.PropertyLabel][c.ObjectLabel] {
				seenFacet[c.PropertyLabel][c.ObjectLabel] = true
				e.Facets[c.PropertyLabel] = append(e.Facets[c.PropertyLabel], c.ObjectLabel)
			}
		}
	}

	// An explicit "name" identifier beats whichever subject label happened to
	// sort first.
	if n := e.Identifiers["name"]; n != "" && n != e.Name {
		altNames[e.Name] = true
		delete(altNames, n)
		e.Name = n
	}

	e.References = sortedKeys(refs)
	e.Sources = sortedKeys(sources)
	for prop := range e.Facets {
		sort.Strings(e.Facets[prop])
	}
	if targetType == model.TypePerson {
		e.AlternateNames = sortedKeys(altNames)
	}

	if sourceDoc != nil {
		e.SourceFields = map[string]string{}
		for _, field := range tc.SourceFields {
			if v, ok := sourceDoc[field].(string); ok && v != "" {
				e.SourceFields[field] = v
			}
		}
		if tc.CategoryField != "" {
			if v, ok := sourceDoc[tc.CategoryField].(string); ok {
				if mapped, ok := tc.CategoryMap[v]; ok {
					e.Category = mapped
				}
			}
		}
	}

	e.EntityID = entityID(e.Identifiers)
	return e
}

// entityID derives a stable id from the highest-priority identifier present,
// or "" when the entity carries none of the priority schemes.
func entityID(ids map[string]string) string {
	for _, scheme := range idPriority {
		if v, ok := ids[string(scheme)]; ok && v != "" {
			sum := md5.Sum([]byte(v))
			return fmt.Sprintf("%s_%s", scheme, hex.EncodeToString(sum[:]))
		}
	}
	return ""
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
