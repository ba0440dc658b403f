// Package config loads, validates, and defaults the reelsmith configuration.
//
// Configuration is read once at process start from a TOML file, merged over
// package defaults, validated, and then passed around as an immutable value.
// Components never consult ambient global settings.
package config
