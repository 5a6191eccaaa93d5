package pubadmin

import "embed"

// EmbeddedAssets contains static assets served under /public/: admin.css and
// editor.js, the rich-text editor glue.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
