// Package config handles configuration loading for coven-notebook.
//
// # Overview
//
// Configuration is loaded from a YAML or TOML file with environment variable
// expansion. Anything the file leaves out keeps its Default value, so an
// empty file or no file at all is a working configuration.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from COVEN_NOTEBOOK_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/coven/notebook.yaml
//  3. ~/.config/coven/notebook.yaml
//
// Files ending in .toml are decoded as TOML; everything else as YAML.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	api:
//	  token: "${COVEN_TOKEN}"
//
// Unset variables expand to the empty string.
//
// # Configuration Sections
//
// Platform API:
//
//	api:
//	  base_url: "https://platform.example.com"
//	  token: "${COVEN_TOKEN}"
//	  timeout: "30s"
//
// Local state database:
//
//	database:
//	  path: "~/.local/share/coven/notebook.db"
//
// Rendering defaults:
//
//	render:
//	  theme: "auto"       # dark, light, auto
//	  width: 100
//	  format: "terminal"  # terminal, html
//
// Browser viewer (coven-notebook serve):
//
//	server:
//	  addr: "localhost:7777"
//	  cache_ttl: "5m"
//	  cache_size: 64
//
// Logging:
//
//	logging:
//	  level: "warn"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load validates the result and reports the first invalid field by its
// dotted name, for example "render.theme must be dark, light or auto".
package config
