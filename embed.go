package labblog

import "embed"

// EmbeddedAssets contains static assets shipped with labblog: style.css
// with the light and dark palettes.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
