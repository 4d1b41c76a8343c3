// Package config loads, normalizes, and validates videodigest configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// VIDEODIGEST_API_KEY. The Config type centralizes every knob the CLI and
// HTTP surface need so downstream code receives sanitized paths, canonical
// log formats, and clear validation errors.
package config
