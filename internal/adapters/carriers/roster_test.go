package carriers

import (
	"context"
	"os"
	"path/filepath"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/services"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRosterScoresUCOInUK(t *testing.T) {
	scorer := services.CarrierScorer{Roster: DefaultRoster()}
	got := scorer.Suggest(context.Background(), "uco", domain.RouteConstraints{}, "UK")

	require.Len(t, got, 2)
	assert.Equal(t, "GreenCycle Logistics", got[0].Name)
	assert.Equal(t, 55, got[0].Score)
	assert.Equal(t, "Hazline Bulk", got[1].Name)
	assert.Equal(t, 55, got[1].Score)
}

func TestStaticRosterReturnsCopy(t *testing.T) {
	r := NewStaticRoster([]domain.Carrier{{Name: "A"}})
	list, err := r.ListCarriers(context.Background())
	require.NoError(t, err)
	list[0].Name = "changed"

	again, _ := r.ListCarriers(context.Background())
	assert.Equal(t, "A", again[0].Name)
}

func TestYAMLRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carriers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
carriers:
  - name: Fenland Tankers
    capabilities: [tanker]
    certifications: [ADR]
    service_areas: [UK, East Anglia]
    specialties: [uco]
  - name: Peak Reefers
    capabilities: [temperature_controlled]
    service_areas: [Midlands]
`), 0o600))

	r := NewYAMLRoster(path)
	got, err := r.ListCarriers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Fenland Tankers", got[0].Name)
	assert.Equal(t, []string{"UK", "East Anglia"}, got[0].ServiceAreas)
	assert.Nil(t, got[1].Specialties)
}

func TestYAMLRosterErrors(t *testing.T) {
	_, err := NewYAMLRoster(filepath.Join(t.TempDir(), "missing.yaml")).ListCarriers(context.Background())
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("carriers:\n  - capabilities: [tanker]\n"), 0o600))
	_, err = LoadYAML(path)
	require.Error(t, err)

	_, err = LoadYAML("")
	require.Error(t, err)
}
