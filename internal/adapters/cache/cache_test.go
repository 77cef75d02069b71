package cache

import (
	"context"
	"database/sql"
	"route-optimizer-service/internal/adapters/repositories"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repositories.InitSQLiteSchema(context.Background(), db))
	return db
}

func TestUniqueKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, uniqueKeys([]string{" a", "", "b", "a "}))
	assert.Equal(t, "?,?,?", placeholders(3))
	assert.Equal(t, "", placeholders(0))
}

func TestSQLiteDistanceCacheRoundTrip(t *testing.T) {
	c := NewSQLiteDistanceCache(openSQLite(t), 0)
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, "o", map[string]ports.DistanceResult{
		"a": {DistanceMeters: 1000, DurationSeconds: 60},
		"b": {DistanceMeters: 2000, DurationSeconds: 120},
	}))
	require.NoError(t, c.PutMany(ctx, "o", map[string]ports.DistanceResult{
		"a": {DistanceMeters: 1500, DurationSeconds: 90},
	}))

	got, err := c.GetMany(ctx, "o", []string{"a", "b", "missing", "a"})
	require.NoError(t, err)
	assert.Equal(t, map[string]ports.DistanceResult{
		"a": {DistanceMeters: 1500, DurationSeconds: 90},
		"b": {DistanceMeters: 2000, DurationSeconds: 120},
	}, got)

	_, err = c.GetMany(ctx, "", []string{"a"})
	require.Error(t, err)
	require.Error(t, c.PutMany(ctx, "o", map[string]ports.DistanceResult{" ": {}}))
}

func TestSQLiteDistanceCacheExpiresOldRows(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO distance_cache VALUES ('o', 'stale', 1, 1, ?)`, time.Now().Add(-2*time.Hour).Unix())
	require.NoError(t, err)

	fresh := NewSQLiteDistanceCache(db, time.Hour)
	got, err := fresh.GetMany(ctx, "o", []string{"stale"})
	require.NoError(t, err)
	assert.Empty(t, got)

	forever := NewSQLiteDistanceCache(db, 0)
	got, err = forever.GetMany(ctx, "o", []string{"stale"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteGeocodeCacheRoundTrip(t *testing.T) {
	c := NewSQLiteGeocodeCache(openSQLite(t))
	ctx := context.Background()

	leeds := domain.Coordinates{Lat: 53.8008, Lon: -1.5491}
	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{"Leeds Station": leeds}))

	got, err := c.GetMany(ctx, []string{"Leeds Station", "Nowhere"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{"Leeds Station": leeds}, got)
}

func TestNilDBIsAnError(t *testing.T) {
	ctx := context.Background()
	_, err := (&SQLiteDistanceCache{}).GetMany(ctx, "o", []string{"a"})
	require.Error(t, err)
	_, err = (&SQLDistanceCache{}).GetMany(ctx, "o", []string{"a"})
	require.Error(t, err)
	require.Error(t, (&SQLGeocodeCache{}).PutMany(ctx, map[string]domain.Coordinates{"a": {}}))
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisDistanceCacheRoundTripAndTTL(t *testing.T) {
	mr, rdb := newRedis(t)
	c := NewRedisDistanceCache(rdb, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, "o", map[string]ports.DistanceResult{
		"a": {DistanceMeters: 1000, DurationSeconds: 60},
	}))
	require.NoError(t, mr.Set(c.key("o", "junk"), "not json"))

	got, err := c.GetMany(ctx, "o", []string{"a", "b", "junk"})
	require.NoError(t, err)
	assert.Equal(t, map[string]ports.DistanceResult{"a": {DistanceMeters: 1000, DurationSeconds: 60}}, got)

	mr.FastForward(2 * time.Minute)
	got, err = c.GetMany(ctx, "o", []string{"a"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisGeocodeCacheRoundTrip(t *testing.T) {
	_, rdb := newRedis(t)
	c := NewRedisGeocodeCache(rdb, 0)
	ctx := context.Background()

	york := domain.Coordinates{Lat: 53.96, Lon: -1.0873}
	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{"York": york}))

	got, err := c.GetMany(ctx, []string{"York", "Paris"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{"York": york}, got)
}

func TestRedisCacheFailsWhenServerIsDown(t *testing.T) {
	mr, rdb := newRedis(t)
	c := NewRedisDistanceCache(rdb, time.Minute)
	mr.Close()

	_, err := c.GetMany(context.Background(), "o", []string{"a"})
	require.Error(t, err)
}
