package quillkit

import "embed"

// localeFS contains the built-in UI translation bundles. Sites can override
// or extend them by dropping TOML files into their own locales directory.
//
//go:embed locales/*.toml
var localeFS embed.FS
