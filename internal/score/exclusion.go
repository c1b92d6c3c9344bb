package score

import (
	"strings"

	"github.com/ppiankov/claimtrackr/internal/model"
	"github.com/ppiankov/claimtrackr/internal/similarity"
)

// exclusionSimilarityCutoff is deliberately looser than the diagnosis cutoff
const exclusionSimilarityCutoff = 0.4

// MatchExclusions checks a bill diagnosis against every configured exclusion.
// All matching exclusions are returned in list order.
func MatchExclusions(diagnosis string, exclusions []string) []model.ExclusionViolation {
	disease := strings.ToLower(diagnosis)
	violations := []model.ExclusionViolation{}

	for _, exclusion := range exclusions {
		label := strings.ToLower(exclusion)
		sim := similarity.Compare(disease, label, similarity.RawCount)

		if sim.Defined {
			if sim.Value > exclusionSimilarityCutoff {
				violations = append(violations, model.ExclusionViolation{
					Exclusion:        exclusion,
					Similarity:       sim.Percent(),
					DiseaseMentioned: disease,
					MatchedBy:        model.MatchCosine,
				})
			}
			continue
		}

		// No terms to compare on either side: fall back to containment
		if strings.Contains(disease, label) || strings.Contains(label, disease) {
			violations = append(violations, model.ExclusionViolation{
				Exclusion:        exclusion,
				Similarity:       100,
				DiseaseMentioned: disease,
				MatchedBy:        model.MatchSubstring,
			})
		}
	}

	return violations
}
