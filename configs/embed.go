// Package configs provides embedded configuration templates for dexsync.
//
// Templates are embedded at build time using Go's //go:embed directive
// so they ship inside the binary regardless of how it was installed.
//
// Configuration hierarchy (see internal/config/config.go Load()):
//  1. Hardcoded defaults (internal/config/config.go NewConfig())
//  2. User config (~/.config/dexsync/config.yaml)
//  3. Project config (.dexsync.yaml)
//  4. Environment variables (DEX_API_KEY, DEXSYNC_*)
//
// To modify the template, edit the .yaml file in this directory and
// rebuild.
package configs

import _ "embed"

// UserConfigTemplate is the template for user/machine-level
// configuration, written by `dexsync config init` to
// ~/.config/dexsync/config.yaml.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string
