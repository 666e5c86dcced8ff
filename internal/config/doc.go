// Package config handles configuration loading for iconbox.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from ICONBOX_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/iconbox/config.yaml
//  3. ~/.config/iconbox/config.yaml
//
// A missing file is not an error: LoadOrDefault returns built-in defaults.
// Files ending in .toml are parsed as TOML, anything else as YAML.
//
// # Environment Variable Expansion
//
//	database:
//	  path: "${HOME}/icons/iconbox.db"
//
// # Configuration Sections
//
// Database:
//
//	database:
//	  path: "~/.local/share/iconbox/iconbox.db"  # default: $XDG_DATA_HOME/iconbox/iconbox.db
//	  driver: "sqlite"                           # sqlite (pure Go) or sqlite3 (cgo)
//
// Logging:
//
//	logging:
//	  level: "info"    # debug, info, warn, error
//	  format: "text"   # text, json
//	  file: ""         # optional, rotated with lumberjack
//
// Folder import:
//
//	import:
//	  workers: 4
//	  max_file_size: "5MB"   # larger SVG files are skipped
package config
