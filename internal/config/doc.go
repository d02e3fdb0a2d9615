// Package config loads, normalizes, and validates routemigrate configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, loads a local .env file, and honours environment fallbacks such
// as GOOGLE_APPLICATION_CREDENTIALS and FIRESTORE_EMULATOR_HOST. The Config
// type centralizes every knob the CLI needs so store bootstrap, collection
// names, batch limits, and log routing are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors. Every validation failure is
// tagged as a configuration error so the CLI can map it to exit code 2.
package config
