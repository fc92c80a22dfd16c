// Package constants holds shared cross-layer constant values.
package constants

// Environment names.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Pub/Sub provider names.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)
