package services

import (
	"context"
	"fmt"
	"log"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"sort"
	"strings"
)

// Score weights for carrier suitability rules.
const (
	RegionScore      = 30
	TemperatureScore = 20
	ADRScore         = 25
	SpecialtyScore   = 25
)

// Capability and certification tags the scoring rules look for.
const (
	CapabilityTemperatureControlled = "temperature_controlled"
	CertificationADR                = "adr"
)

// SuggestCarriers scores every roster carrier against the request and
// returns the non-zero ones, best first. Equal scores keep roster order.
func SuggestCarriers(
	roster []domain.Carrier,
	materialType string,
	constraints domain.RouteConstraints,
	region string,
) []domain.CarrierSuggestion {
	region = strings.TrimSpace(region)
	materialType = strings.TrimSpace(materialType)

	out := make([]domain.CarrierSuggestion, 0, len(roster))
	for _, c := range roster {
		score := 0
		reasons := []string{}

		// An empty region would be a substring of every service area.
		if region != "" && servesRegion(c.ServiceAreas, region) {
			score += RegionScore
			reasons = append(reasons, fmt.Sprintf("Services %s area", region))
		}

		if constraints.TemperatureControlled && hasTag(c.Capabilities, CapabilityTemperatureControlled) {
			score += TemperatureScore
			reasons = append(reasons, "Temperature controlled vehicles")
		}

		if constraints.Hazardous() && hasCertification(c.Certifications, CertificationADR) {
			score += ADRScore
			reasons = append(reasons, "ADR certified for dangerous goods")
		}

		if materialType != "" && hasTag(c.Specialties, materialType) {
			score += SpecialtyScore
			reasons = append(reasons, fmt.Sprintf("Specializes in %s transport", materialType))
		}

		if score == 0 {
			continue
		}

		out = append(out, domain.CarrierSuggestion{
			Name:           c.Name,
			Capabilities:   c.Capabilities,
			Certifications: c.Certifications,
			ServiceAreas:   c.ServiceAreas,
			Score:          score,
			Reasons:        reasons,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// CarrierScorer applies SuggestCarriers to a roster source.
type CarrierScorer struct {
	Roster ports.CarrierRoster
}

// Suggest always returns a list; a roster failure is logged and yields no suggestions.
func (s *CarrierScorer) Suggest(
	ctx context.Context,
	materialType string,
	constraints domain.RouteConstraints,
	region string,
) []domain.CarrierSuggestion {
	var err error
	defer obs.Time(ctx, "carriers.Suggest")(&err)

	if s.Roster == nil {
		return []domain.CarrierSuggestion{}
	}

	roster, err := s.Roster.ListCarriers(ctx)
	if err != nil {
		log.Printf("carrier roster unavailable: %v", err)
		return []domain.CarrierSuggestion{}
	}

	return SuggestCarriers(roster, materialType, constraints, region)
}

func servesRegion(areas []string, region string) bool {
	r := strings.ToLower(region)
	for _, a := range areas {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if strings.Contains(a, r) || strings.Contains(r, a) {
			return true
		}
	}
	return false
}

// normalizeTag folds case and treats spaces and dashes like underscores.
func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func hasTag(tags []string, want string) bool {
	want = normalizeTag(want)
	for _, t := range tags {
		if normalizeTag(t) == want {
			return true
		}
	}
	return false
}

// hasCertification matches name exactly or followed by a qualifier,
// so "ADR Class 3" counts as ADR but "adrian_haulage" does not.
func hasCertification(certs []string, name string) bool {
	name = normalizeTag(name)
	for _, c := range certs {
		c = normalizeTag(c)
		if c == name || strings.HasPrefix(c, name+"_") {
			return true
		}
	}
	return false
}
