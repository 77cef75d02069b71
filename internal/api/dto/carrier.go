package dto

import "route-optimizer-service/internal/domain"

type SuggestCarriersRequest struct {
	MaterialType string              `json:"material_type"`
	Region       string              `json:"region"`
	Constraints  *ConstraintsRequest `json:"constraints"`
}

type CarrierSuggestionResponse struct {
	Name           string   `json:"name"`
	Capabilities   []string `json:"capabilities"`
	Certifications []string `json:"certifications"`
	ServiceAreas   []string `json:"service_areas"`
	Score          int      `json:"score"`
	Reasons        []string `json:"reasons"`
}

type SuggestCarriersResponse struct {
	Carriers []CarrierSuggestionResponse `json:"carriers"`
}

func NewSuggestCarriersResponse(list []domain.CarrierSuggestion) SuggestCarriersResponse {
	out := SuggestCarriersResponse{Carriers: make([]CarrierSuggestionResponse, 0, len(list))}
	for _, s := range list {
		out.Carriers = append(out.Carriers, CarrierSuggestionResponse{
			Name:           s.Name,
			Capabilities:   nonNil(s.Capabilities),
			Certifications: nonNil(s.Certifications),
			ServiceAreas:   nonNil(s.ServiceAreas),
			Score:          s.Score,
			Reasons:        nonNil(s.Reasons),
		})
	}
	return out
}

// nonNil keeps JSON arrays from rendering as null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
