package services

import (
	"context"
	"errors"
	"route-optimizer-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoster = []domain.Carrier{
	{
		Name:         "Green Oil Haulage",
		Capabilities: []string{"tanker"},
		ServiceAreas: []string{"UK"},
		Specialties:  []string{"uco"},
	},
	{
		Name:           "ChemLine Logistics",
		Capabilities:   []string{"tanker", "Temperature-Controlled"},
		Certifications: []string{"ADR", "ISO 9001"},
		ServiceAreas:   []string{"Germany", "Netherlands"},
		Specialties:    []string{"chemicals", "uco"},
	},
	{
		Name:         "Cold Chain Express",
		Capabilities: []string{"temperature_controlled", "reefer"},
		ServiceAreas: []string{"United Kingdom", "Ireland"},
		Specialties:  []string{"food_waste"},
	},
	{
		Name:         "Metro Metals",
		Capabilities: []string{"flatbed"},
		ServiceAreas: []string{"Scotland"},
		Specialties:  []string{"metal"},
	},
}

func TestSuggestCarriersUCOInUK(t *testing.T) {
	got := SuggestCarriers(testRoster, "uco", domain.RouteConstraints{}, "UK")

	require.NotEmpty(t, got)
	top := got[0]
	assert.Equal(t, "Green Oil Haulage", top.Name)
	assert.Equal(t, 55, top.Score)
	assert.Equal(t, []string{"Services UK area", "Specializes in uco transport"}, top.Reasons)
}

func TestSuggestCarriersEmptyRegionNoConstraints(t *testing.T) {
	got := SuggestCarriers(testRoster, "uco", domain.RouteConstraints{}, "")

	require.Len(t, got, 2)
	for _, s := range got {
		assert.Equal(t, SpecialtyScore, s.Score)
		assert.Equal(t, []string{"Specializes in uco transport"}, s.Reasons)
	}
	// Ties keep roster order.
	assert.Equal(t, "Green Oil Haulage", got[0].Name)
	assert.Equal(t, "ChemLine Logistics", got[1].Name)
}

func TestSuggestCarriersAllRules(t *testing.T) {
	c := domain.RouteConstraints{ADRClass: "3", TemperatureControlled: true}

	got := SuggestCarriers(testRoster, "chemicals", c, "netherlands")

	require.NotEmpty(t, got)
	assert.Equal(t, "ChemLine Logistics", got[0].Name)
	assert.Equal(t, RegionScore+TemperatureScore+ADRScore+SpecialtyScore, got[0].Score)
	assert.Equal(t, []string{
		"Services netherlands area",
		"Temperature controlled vehicles",
		"ADR certified for dangerous goods",
		"Specializes in chemicals transport",
	}, got[0].Reasons)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score, "results must be sorted descending")
	}
}

func TestSuggestCarriersRegionSubstringBothWays(t *testing.T) {
	// "United Kingdom" contains "kingdom"; "Scotland" is contained in "Scotland Highlands".
	got := SuggestCarriers(testRoster, "", domain.RouteConstraints{}, "Kingdom")
	require.Len(t, got, 1)
	assert.Equal(t, "Cold Chain Express", got[0].Name)

	got = SuggestCarriers(testRoster, "", domain.RouteConstraints{}, "Scotland Highlands")
	require.Len(t, got, 1)
	assert.Equal(t, "Metro Metals", got[0].Name)
	assert.Equal(t, RegionScore, got[0].Score)
}

func TestSuggestCarriersExcludesZeroScores(t *testing.T) {
	got := SuggestCarriers(testRoster, "glass", domain.RouteConstraints{}, "Mars")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

type rosterFunc func(ctx context.Context) ([]domain.Carrier, error)

func (f rosterFunc) ListCarriers(ctx context.Context) ([]domain.Carrier, error) { return f(ctx) }

func TestCarrierScorerRosterFailure(t *testing.T) {
	s := &CarrierScorer{Roster: rosterFunc(func(context.Context) ([]domain.Carrier, error) {
		return nil, errors.New("db down")
	})}

	got := s.Suggest(context.Background(), "uco", domain.RouteConstraints{}, "UK")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCarrierScorerUsesRoster(t *testing.T) {
	s := &CarrierScorer{Roster: rosterFunc(func(context.Context) ([]domain.Carrier, error) {
		return testRoster, nil
	})}

	got := s.Suggest(context.Background(), "metal", domain.RouteConstraints{}, "")
	require.Len(t, got, 1)
	assert.Equal(t, "Metro Metals", got[0].Name)
}

func TestSuggestCarriersADRCertificationMatching(t *testing.T) {
	roster := []domain.Carrier{
		{Name: "Adrian Haulage", Certifications: []string{"adrian_haulage"}},
		{Name: "Hazline Bulk", Certifications: []string{"ADR Class 3"}},
		{Name: "ChemLine", Certifications: []string{"adr"}},
		{Name: "Tanker Co", Certifications: []string{"ADR-Class-8"}},
	}

	got := SuggestCarriers(roster, "", domain.RouteConstraints{ADRClass: "3"}, "")

	names := make([]string, 0, len(got))
	for _, s := range got {
		names = append(names, s.Name)
		assert.Equal(t, ADRScore, s.Score)
	}
	assert.Equal(t, []string{"Hazline Bulk", "ChemLine", "Tanker Co"}, names)
}
