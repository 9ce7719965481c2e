// Package config loads, normalizes, and validates cinematch configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CINEMATCH_DATASET. The Config type centralizes every knob the CLI needs so
// dataset, artifact, and state locations are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
