package distance

import (
	"context"
	"log"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
)

// lookupCached builds an n×n matrix from the distance cache. The diagonal is
// zero; rows with at least one miss are returned in missing.
func lookupCached(
	ctx context.Context,
	cache ports.DistanceCache,
	points []domain.Coordinates,
) ([][]*ports.DistanceResult, []int) {
	n := len(points)
	matrix := make([][]*ports.DistanceResult, n)
	missing := make([]int, 0, n)

	keys := make([]string, n)
	for i, p := range points {
		keys[i] = p.Key()
	}

	for i := range points {
		matrix[i] = make([]*ports.DistanceResult, n)
		matrix[i][i] = &ports.DistanceResult{}

		// Points sharing a key are the same place.
		dests := make([]string, 0, n-1)
		for j := range points {
			if j == i {
				continue
			}
			if keys[j] == keys[i] {
				matrix[i][j] = &ports.DistanceResult{}
				continue
			}
			dests = append(dests, keys[j])
		}

		if len(dests) == 0 {
			continue
		}

		var hits map[string]ports.DistanceResult
		if cache != nil {
			var err error
			hits, err = cache.GetMany(ctx, keys[i], dests)
			if err != nil {
				log.Printf("distance cache read failed origin=%s: %v", keys[i], err)
			}
		}

		complete := true
		for j := range points {
			if matrix[i][j] != nil {
				continue
			}
			if r, ok := hits[keys[j]]; ok {
				r := r
				matrix[i][j] = &r
				continue
			}
			complete = false
		}

		if !complete {
			missing = append(missing, i)
		}
	}

	return matrix, missing
}

// storeRows writes freshly fetched rows back to the cache. Cache failures
// are logged; they never fail the lookup.
func storeRows(
	ctx context.Context,
	cache ports.DistanceCache,
	points []domain.Coordinates,
	matrix [][]*ports.DistanceResult,
	rows []int,
) {
	if cache == nil {
		return
	}

	for _, i := range rows {
		origin := points[i].Key()
		results := make(map[string]ports.DistanceResult, len(points))
		for j, cell := range matrix[i] {
			if j == i || cell == nil {
				continue
			}
			dest := points[j].Key()
			if dest == origin {
				continue
			}
			results[dest] = *cell
		}

		if err := cache.PutMany(ctx, origin, results); err != nil {
			log.Printf("distance cache write failed origin=%s: %v", origin, err)
		}
	}
}
