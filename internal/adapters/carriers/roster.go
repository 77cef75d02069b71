// Package carriers provides carrier roster sources that need no database:
// a built-in reference list and a YAML file.
package carriers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"route-optimizer-service/internal/domain"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// StaticRoster serves a fixed carrier list.
type StaticRoster struct {
	carriers []domain.Carrier
}

func NewStaticRoster(carriers []domain.Carrier) *StaticRoster {
	return &StaticRoster{carriers: carriers}
}

// ListCarriers returns a copy so callers cannot mutate the roster.
func (r *StaticRoster) ListCarriers(context.Context) ([]domain.Carrier, error) {
	return append([]domain.Carrier(nil), r.carriers...), nil
}

// DefaultRoster is the built-in reference roster used when no file or
// database is configured.
func DefaultRoster() *StaticRoster {
	return NewStaticRoster([]domain.Carrier{
		{
			Name:           "GreenCycle Logistics",
			Capabilities:   []string{"tanker", "bulk_liquid"},
			Certifications: []string{"ISO 14001", "Waste Carrier Licence"},
			ServiceAreas:   []string{"UK"},
			Specialties:    []string{"uco"},
		},
		{
			Name:           "EcoHaul Europe",
			Capabilities:   []string{"tanker", "temperature_controlled"},
			Certifications: []string{"ADR", "ISO 9001"},
			ServiceAreas:   []string{"Germany", "Netherlands", "Belgium"},
			Specialties:    []string{"chemicals", "solvents"},
		},
		{
			Name:           "ColdLoop Transport",
			Capabilities:   []string{"temperature_controlled", "reefer"},
			Certifications: []string{"BRCGS"},
			ServiceAreas:   []string{"United Kingdom", "Ireland"},
			Specialties:    []string{"food_waste"},
		},
		{
			Name:           "Northern Metals Freight",
			Capabilities:   []string{"flatbed", "skip"},
			Certifications: []string{"Waste Carrier Licence"},
			ServiceAreas:   []string{"Scotland", "Northern England"},
			Specialties:    []string{"metal", "scrap"},
		},
		{
			Name:           "Hazline Bulk",
			Capabilities:   []string{"tanker", "ibc"},
			Certifications: []string{"ADR Class 3", "ADR Class 8"},
			ServiceAreas:   []string{"UK", "France"},
			Specialties:    []string{"waste_oil", "uco"},
		},
		{
			Name:           "Nordic Fibre Movers",
			Capabilities:   []string{"curtainsider", "walking_floor"},
			Certifications: []string{"FSC Chain of Custody"},
			ServiceAreas:   []string{"Sweden", "Norway", "Denmark"},
			Specialties:    []string{"paper", "cardboard", "biomass"},
		},
	})
}

// YAMLRoster loads carriers from a YAML file on first use and keeps them.
type YAMLRoster struct {
	path string

	once     sync.Once
	carriers []domain.Carrier
	err      error
}

func NewYAMLRoster(path string) *YAMLRoster {
	return &YAMLRoster{path: path}
}

type rosterFile struct {
	Carriers []domain.Carrier `yaml:"carriers"`
}

func (r *YAMLRoster) ListCarriers(context.Context) ([]domain.Carrier, error) {
	r.once.Do(func() {
		r.carriers, r.err = LoadYAML(r.path)
	})
	if r.err != nil {
		return nil, r.err
	}
	return append([]domain.Carrier(nil), r.carriers...), nil
}

// LoadYAML reads a roster file of the form `carriers: [...]`.
func LoadYAML(path string) ([]domain.Carrier, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("load carrier roster: path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load carrier roster: read %q: %w", path, err)
	}

	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("load carrier roster: parse %q: %w", path, err)
	}

	for i, c := range f.Carriers {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("load carrier roster: carrier #%d has no name", i+1)
		}
	}

	return f.Carriers, nil
}
