// Package confloader loads configuration with koanf and watches the config
// file for changes.
//
// Priority (highest to lowest):
//
//  1. Overrides passed with WithOverrides (command-line flags)
//  2. Environment variables (CORELINK_SECTION__KEY)
//  3. Configuration file (YAML)
//  4. Values already present in the target struct (defaults)
package confloader
