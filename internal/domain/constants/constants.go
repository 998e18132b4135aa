// Package constants holds shared domain-level constants.
package constants

// Environment names used in configuration.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Pub/Sub provider types for the event publisher.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Position store provider types.
const (
	PositionStoreProviderMemory = "memory"
	PositionStoreProviderRedis  = "redis"
)
