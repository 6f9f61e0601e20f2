// Package config loads, normalizes, and validates mlhdclean configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MLHD_ROOT and MB_DATABASE_URL, optionally sourced from a .env file in the
// working directory. The Config type centralizes every knob the cleaning run
// and the CLI need so input, output, log, and catalog locations are discovered
// in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
