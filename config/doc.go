// Package config loads the service configuration from environment variables
// (PORT, SERVICE_NAME and friends) with an optional config.yaml override file.
// The resulting Config is validated once at startup and treated as immutable.
package config
