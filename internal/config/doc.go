// Package config loads textcore settings.
//
// Settings are resolved in three steps, later ones winning:
//
//  1. built-in defaults (Default)
//  2. a TOML or YAML file, chosen by extension (Load)
//  3. TEXTCORE_* environment variables (ApplyEnv)
//
// Unknown keys in a file are an error, so typos surface at startup rather
// than being silently ignored. A Watcher reloads the file when it changes
// on disk.
//
// A minimal config.toml:
//
//	[editor]
//	tab_size = 4
//	word_wrap = true
//
//	[keys]
//	"ctrl+d" = "duplicate-line"
package config
