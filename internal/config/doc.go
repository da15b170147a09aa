// Package config loads and validates the application configuration.
//
// Configuration is layered: built-in defaults, then FLOWETL_-prefixed
// environment variables, then an optional YAML file (flowetl.yaml or the
// path named by FLOWETL_CONFIG), then command-line flags applied by the
// entrypoint. Validation runs once over the merged result.
package config
