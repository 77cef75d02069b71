package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// Matrix returns all-pairs distances for points. Rows fully present in the
// distance cache are served from it; the remaining rows are fetched with a
// single ORS matrix request.
func (o *ORSDistanceProvider) Matrix(
	ctx context.Context,
	points []domain.Coordinates,
) (_ [][]*ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.Matrix")(&err)

	matrix, missing := lookupCached(ctx, o.distanceCache, points)
	if len(missing) == 0 {
		return matrix, nil
	}

	if err := o.fetchMatrixRows(ctx, points, missing, matrix); err != nil {
		return nil, fmt.Errorf("fetching matrix rows: %w", err)
	}

	storeRows(ctx, o.distanceCache, points, matrix, missing)
	return matrix, nil
}

// fetchMatrixRows fills matrix rows for the given source indices using the
// OpenRouteService matrix endpoint. Null cells stay nil.
func (o *ORSDistanceProvider) fetchMatrixRows(
	ctx context.Context,
	points []domain.Coordinates,
	sources []int,
	matrix [][]*ports.DistanceResult,
) error {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, len(points))
	destIdx := make([]int, 0, len(points))
	for i, p := range points {
		locations = append(locations, p.CoordsToList())
		destIdx = append(destIdx, i)
	}

	bodyObj := matrixRequest{
		Locations:    locations,
		Destinations: destIdx,
		Metrics:      []string{"distance", "duration"},
		Sources:      sources,
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return fmt.Errorf("marshal matrix request: %w", err)
	}

	req, err := o.client.NewRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", o.apiKey)

	var mr matrixResponse
	if err := o.client.DoJSON(req, &mr); err != nil {
		return fmt.Errorf("matrix request failed: %w", err)
	}

	if len(mr.Distances) != len(sources) || len(mr.Durations) != len(sources) {
		return fmt.Errorf(
			"expected %d source rows; got distances=%d durations=%d",
			len(sources), len(mr.Distances), len(mr.Durations),
		)
	}

	for r, src := range sources {
		rowDistances := mr.Distances[r]
		rowDurations := mr.Durations[r]

		if len(rowDistances) != len(points) || len(rowDurations) != len(points) {
			return fmt.Errorf(
				"row lengths do not match destinations: distances=%d durations=%d destinations=%d",
				len(rowDistances), len(rowDurations), len(points),
			)
		}

		for j := range points {
			if src == j {
				continue
			}

			metersPtr := rowDistances[j]
			secondsPtr := rowDurations[j]
			if metersPtr == nil || secondsPtr == nil {
				matrix[src][j] = nil
				continue
			}

			// ORS returns float metrics; round to nearest integer for domain consistency.
			matrix[src][j] = &ports.DistanceResult{
				DistanceMeters:  int(math.Round(*metersPtr)),
				DurationSeconds: int(math.Round(*secondsPtr)),
			}
		}
	}

	return nil
}
