package charsheet

import "errors"

var (
	// ErrUnsupportedImage is returned when portrait bytes cannot be decoded
	// as an image in any registered format.
	ErrUnsupportedImage = errors.New("charsheet: unsupported image")

	// ErrImageTooLarge is returned when portrait bytes exceed MaxPortraitBytes
	// or the decoded raster exceeds MaxSourcePixels.
	ErrImageTooLarge = errors.New("charsheet: image too large")

	// ErrTemplateLoad is returned when a page template is unreachable, empty
	// or not valid UTF-8, and when an export is attempted without templates.
	ErrTemplateLoad = errors.New("charsheet: template load failed")

	// ErrInvalidSelection is returned when an export includes neither page.
	ErrInvalidSelection = errors.New("charsheet: select at least one page")

	// ErrArchiveWrite is returned when the export archive cannot be built.
	ErrArchiveWrite = errors.New("charsheet: archive write failed")

	// ErrUnknownPortrait is returned for gallery keys that are not listed.
	ErrUnknownPortrait = errors.New("charsheet: unknown gallery portrait")
)
