package config

import "os"

// parseEnv overlays Config fields from environment variables. Only variables
// that are set and non-empty override the current values, so the JSON and
// default layers survive a partially populated environment.
func parseEnv(config *Config) {
	setIfPresent := func(key string, target *string) {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}

	setIfPresent("HTTP_ADDR", &config.EndpointAddrHTTP)
	setIfPresent("DATABASE_DSN", &config.DatabaseDSN)
	setIfPresent("SECRET_KEY", &config.SecretKey)
	setIfPresent("S3_ROOT_USER", &config.S3RootUser)
	setIfPresent("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setIfPresent("S3_BUCKET", &config.S3Bucket)
	setIfPresent("S3_REGION", &config.S3Region)
	setIfPresent("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	setIfPresent("S3_PUBLIC_BASE_URL", &config.S3PublicBaseURL)
}
