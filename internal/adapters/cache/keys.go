// Package cache holds the persistent lookup caches behind ports.DistanceCache
// and ports.GeocodeCache: Postgres (pgx), SQLite and Redis.
package cache

import (
	"strings"
	"time"
)

// uniqueKeys trims keys and drops blanks and duplicates, keeping order.
func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// placeholders returns "?,?,?" for n values.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// cutoff is the oldest write time still considered fresh. A zero maxAge
// keeps entries forever.
func cutoff(now time.Time, maxAge time.Duration) time.Time {
	if maxAge <= 0 {
		return time.Unix(0, 0)
	}
	return now.Add(-maxAge)
}
