// Package config loads the camsync TOML configuration: remote and local
// directory roots, ssh settings, transfer tuning, and the static board
// inventory.
package config
