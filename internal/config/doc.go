// Package config loads blockdnd settings.
//
// Settings are layered, lowest precedence first:
//
//  1. Built-in defaults (Default)
//  2. A settings file, TOML or YAML chosen by extension
//  3. BLOCKDND_* environment variables
//  4. Command-line flags, applied by the caller
//
// Only ShowHandleOnHover is a user-facing preference; the remaining fields
// tune interaction timing. None of them affect block segmentation.
//
// A Watcher reloads the settings file when it changes on disk so the
// running editor picks up edits without a restart.
package config
