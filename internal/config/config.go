// Package config reads service settings from the environment.
// Commands call godotenv first, so values from .env are visible here.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Providers holds the credentials and endpoints of the external services.
// A strategy whose credential is empty is reported as unconfigured.
type Providers struct {
	TripToken     string
	TripBaseURL   string
	VRPKey        string
	VRPBaseURL    string
	GoogleMapsKey string
	GoogleBaseURL string
	ORSKey        string
	ORSBaseURL    string
	ORSCountry    string
}

type Config struct {
	Port                  string
	DatabaseURL           string
	DBPath                string
	RedisURL              string
	CarrierRosterPath     string
	OptimizerTimeout      time.Duration
	AverageSpeedKph       float64
	ProviderRatePerSecond float64
	Providers             Providers
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads every setting, falling back to defaults for unset or
// malformed values.
func Load() Config {
	return Config{
		Port:                  Get("PORT", "8080"),
		DatabaseURL:           Get("DATABASE_URL", ""),
		DBPath:                Get("DB_PATH", ""),
		RedisURL:              Get("REDIS_URL", ""),
		CarrierRosterPath:     Get("CARRIER_ROSTER_PATH", ""),
		OptimizerTimeout:      getDuration("OPTIMIZER_TIMEOUT", 30*time.Second),
		AverageSpeedKph:       getFloat("AVERAGE_SPEED_KPH", 50),
		ProviderRatePerSecond: getFloat("PROVIDER_RATE_PER_SECOND", 0),
		Providers: Providers{
			TripToken:     Get("MAPBOX_ACCESS_TOKEN", ""),
			TripBaseURL:   Get("MAPBOX_BASE_URL", "https://api.mapbox.com"),
			VRPKey:        Get("VRP_API_KEY", ""),
			VRPBaseURL:    Get("VRP_BASE_URL", "https://api.openrouteservice.org"),
			GoogleMapsKey: Get("GOOGLE_MAPS_API_KEY", ""),
			GoogleBaseURL: Get("GOOGLE_MAPS_BASE_URL", "https://maps.googleapis.com"),
			ORSKey:        Get("ORS_API_KEY", ""),
			ORSBaseURL:    Get("ORS_BASE_URL", "https://api.openrouteservice.org"),
			ORSCountry:    Get("ORS_GEOCODE_COUNTRY", ""),
		},
	}
}

func getFloat(key string, fallback float64) float64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		log.Printf("config: ignoring invalid %s=%q", key, v)
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("config: ignoring invalid %s=%q", key, v)
		return fallback
	}
	return d
}
