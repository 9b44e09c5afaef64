// Package config loads, normalizes, and validates streamsched configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STREAMSCHED_API_TOKEN. The Config type centralizes the knobs the daemon, the
// terminal editor, and the CLI need so the data directory, API bind address,
// and announcement settings are discovered in one pass.
package config
