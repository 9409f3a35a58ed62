package postline

import "embed"

// EmbeddedAssets contains static assets shipped with the framework: toc.js
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
