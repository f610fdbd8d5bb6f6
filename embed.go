package charsheet

import "embed"

// EmbeddedAssets contains the built-in asset tree served when no external
// asset location is configured:
//
//	embedded/svg/charsheet-front.svg
//	embedded/svg/charsheet-back.svg
//	embedded/portraits/*.png
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
