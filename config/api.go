package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Read-only endpoints consumed by the dashboard (no auth)
	return []string{"/api/feed/recommendations", "/api/feed/recommendations/:flockId", "/graphql"}
}
