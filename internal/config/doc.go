// Package config loads, normalizes, and validates sceneflow configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and centralizes every knob the daemon and CLI
// need: catalog database location, changelog batch sizing, claim lease
// duration, and log routing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
