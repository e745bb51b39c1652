package match

import (
	"context"
	"strings"

	"github.com/poiesic/entitymatch/core"
)

// Affiliate is a secondary organization linked to a primary search entity,
// such as a subsidiary or partner.
type Affiliate struct {
	CompanyName      string `json:"company_name"`
	RiskKeyword      string `json:"risk_keyword,omitempty"`
	RelationshipType string `json:"relationship_type,omitempty"`
}

// AffiliatedRequest asks for a combined direct plus affiliated-entity
// match.
type AffiliatedRequest struct {
	Entity     string
	Affiliates []Affiliate
	Options    Options
}

// AffiliateBreakdown reports the matches of one affiliate.
type AffiliateBreakdown struct {
	Affiliate     Affiliate
	MatchCount    int
	TopConfidence float64
	Matches       []core.DatasetMatch
}

// AffiliatedSummary aggregates the affiliate breakdowns.
type AffiliatedSummary struct {
	TotalAffiliates   int
	MatchedAffiliates int
	HighConfidence    int
	AverageConfidence float64
}

// AffiliatedResult is the outcome of an affiliated-entity match.
type AffiliatedResult struct {
	DirectMatches     []core.DatasetMatch
	AffiliatedMatches []core.DatasetMatch
	Breakdown         []AffiliateBreakdown
	Summary           AffiliatedSummary
}

// FindAffiliated matches the primary entity directly and every affiliate
// through the batch pipeline. Affiliate confidences are boosted by the
// configured multiplier, clamped to 1.0, reflecting the known
// relationship, then filtered by the minimum confidence floor.
func (o *Orchestrator) FindAffiliated(ctx context.Context, req AffiliatedRequest) (*AffiliatedResult, error) {
	if strings.TrimSpace(req.Entity) == "" {
		return nil, core.WrapError(core.CodeValidation, core.ErrEmptyEntity)
	}

	direct, err := o.FindMatches(ctx, req.Entity, req.Options)
	if err != nil {
		return nil, err
	}

	result := &AffiliatedResult{
		DirectMatches:     direct.Matches,
		AffiliatedMatches: []core.DatasetMatch{},
		Breakdown:         []AffiliateBreakdown{},
	}

	affiliates := dedupeAffiliates(req.Affiliates)
	result.Summary.TotalAffiliates = len(affiliates)
	if len(affiliates) == 0 {
		return result, nil
	}

	names := make([]string, 0, len(affiliates))
	for _, affiliate := range affiliates {
		names = append(names, affiliate.CompanyName)
	}
	byName, err := o.FindMatchesBatch(ctx, names, req.Options)
	if err != nil {
		return nil, err
	}

	var confidenceSum float64
	var confidenceCount int
	for _, affiliate := range affiliates {
		boosted := o.boostAffiliateMatches(byName[affiliate.CompanyName])

		breakdown := AffiliateBreakdown{
			Affiliate:  affiliate,
			MatchCount: len(boosted),
			Matches:    boosted,
		}
		for _, match := range boosted {
			if match.Confidence > breakdown.TopConfidence {
				breakdown.TopConfidence = match.Confidence
			}
			confidenceSum += match.Confidence
			confidenceCount++
			if match.Confidence >= o.cfg.ConfidenceThreshold {
				result.Summary.HighConfidence++
			}
		}
		if len(boosted) > 0 {
			result.Summary.MatchedAffiliates++
		}
		result.Breakdown = append(result.Breakdown, breakdown)
		result.AffiliatedMatches = append(result.AffiliatedMatches, boosted...)
	}
	if confidenceCount > 0 {
		result.Summary.AverageConfidence = confidenceSum / float64(confidenceCount)
	}
	return result, nil
}

// boostAffiliateMatches applies the affiliated confidence multiplier and
// drops matches below the confidence floor.
func (o *Orchestrator) boostAffiliateMatches(matches []core.DatasetMatch) []core.DatasetMatch {
	boosted := make([]core.DatasetMatch, 0, len(matches))
	for _, match := range matches {
		match.Confidence = core.ClampScore(match.Confidence * o.cfg.AffiliatedBoost)
		if match.Confidence < o.cfg.MinConfidence {
			continue
		}
		boosted = append(boosted, match)
	}
	return boosted
}

// dedupeAffiliates removes duplicate company names case-insensitively,
// keeping the first occurrence.
func dedupeAffiliates(affiliates []Affiliate) []Affiliate {
	seen := make(map[string]bool, len(affiliates))
	kept := make([]Affiliate, 0, len(affiliates))
	for _, affiliate := range affiliates {
		name := strings.ToLower(strings.TrimSpace(affiliate.CompanyName))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		kept = append(kept, affiliate)
	}
	return kept
}
