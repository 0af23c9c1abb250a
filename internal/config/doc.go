// Package config loads service settings from an optional YAML file and
// SCRY_-prefixed environment variables, applies defaults, and validates the
// result before anything else starts.
package config
