package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string // Endpoint path pattern (supports prefix matching)
	Method string // HTTP method (GET, POST, etc.)
	// PerMinute is the sustained number of requests per minute; zero disables limiting
	PerMinute int
	// Burst defaults to PerMinute when zero
	Burst int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// PerMinute applies to endpoints without an own configuration
	PerMinute       int
	CleanupInterval time.Duration
	// IdleTTL is how long an unused client bucket is kept
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig limits every POST endpoint to perMinute requests per client.
// Reads are not limited.
func DefaultConfig(perMinute int) *Config {
	return &Config{
		Enabled:         perMinute > 0,
		PerMinute:       0,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         10 * time.Minute,
		Whitelist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(perMinute),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific configurations.
func DefaultEndpointConfigs(perMinute int) []EndpointConfig {
	return []EndpointConfig{
		// Calls that reach the AI service
		{Path: "/api/proposals", Method: "POST", PerMinute: perMinute, Burst: 2},
		{Path: "/api/proposals/stream", Method: "POST", PerMinute: perMinute, Burst: 2},
		{Path: "/api/transcriptions", Method: "POST", PerMinute: perMinute, Burst: 2},

		// Local session changes
		{Path: "/api/session/", Method: "POST", PerMinute: perMinute * 6, Burst: 10},
	}
}

// ParseIPList parses a comma-separated list of IP addresses into a map.
func ParseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
