package charsheet

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// PortraitSize is the edge length in pixels of every normalized portrait.
	PortraitSize = 512
	// PortraitContentType is the format of every normalized portrait.
	PortraitContentType = "image/jpeg"
	// MaxPortraitBytes bounds raw portrait input before decoding.
	MaxPortraitBytes = 1 << 20 // 1MiB
	// MaxSourcePixels bounds the decoded raster of a portrait source.
	MaxSourcePixels = 1 << 24

	jpegQuality = 90
)

// 1x1 solid white JPEG. Front templates embed it as the portrait placeholder.
const defaultPortraitBase64 = "/9j/4AAQSkZJRgABAQEAYABgAAD/4QBmRXhpZgAATU0AKgAAAAgABAEaAAUAAAABAAAAPgEbAAUAAAABAAAARgEoAAMAAAABAAIAAAExAAIAAAA" +
	"QAAAATgAAAAAAAABgAAAAAQAAAGAAAAABcGFpbnQubmV0IDUuMC45AP/bAEMAAwICAwICAwMDAwQDAwQFCAUFBAQFCgcHBggMCgwMCwoLCw0OEh" +
	"ANDhEOCwsQFhARExQVFRUMDxcYFhQYEhQVFP/bAEMBAwQEBQQFCQUFCRQNCw0UFBQUFBQUFBQUFBQUFBQUFBQUFBQUFBQUFBQUFBQUFBQUFBQUF" +
	"BQUFBQUFBQUFBQUFP/AABEIAAEAAQMBEgACEQEDEQH/xAAfAAABBQEBAQEBAQAAAAAAAAAAAQIDBAUGBwgJCgv/xAC1EAACAQMDAgQDBQUEBAAA" +
	"AX0BAgMABBEFEiExQQYTUWEHInEUMoGRoQgjQrHBFVLR8CQzYnKCCQoWFxgZGiUmJygpKjQ1Njc4OTpDREVGR0hJSlNUVVZXWFlaY2RlZmdoaWp" +
	"zdHV2d3h5eoOEhYaHiImKkpOUlZaXmJmaoqOkpaanqKmqsrO0tba3uLm6wsPExcbHyMnK0tPU1dbX2Nna4eLj5OXm5+jp6vHy8/T19vf4+fr/xA" +
	"AfAQADAQEBAQEBAQEBAAAAAAAAAQIDBAUGBwgJCgv/xAC1EQACAQIEBAMEBwUEBAABAncAAQIDEQQFITEGEkFRB2FxEyIygQgUQpGhscEJIzNS8" +
	"BVictEKFiQ04SXxFxgZGiYnKCkqNTY3ODk6Q0RFRkdISUpTVFVWV1hZWmNkZWZnaGlqc3R1dnd4eXqCg4SFhoeIiYqSk5SVlpeYmZqio6Slpqeo" +
	"qaqys7S1tre4ubrCw8TFxsfIycrS09TV1tfY2dri4+Tl5ufo6ery8/T19vf4+fr/2gAMAwEAAhEDEQA/AP1TooA//9k="

// DefaultPortrait returns the built-in "no portrait selected" value.
func DefaultPortrait() Portrait {
	return Portrait{Base64: defaultPortraitBase64}
}

// Clear returns the default portrait.
func Clear() Portrait {
	return DefaultPortrait()
}

// Ingest normalizes raw image bytes into a portrait. The source is cropped
// to its centred square, scaled to PortraitSize with Catmull-Rom, flattened
// onto white and encoded as JPEG. Equal input always yields equal output.
func Ingest(raw []byte) (Portrait, error) {
	if len(raw) > MaxPortraitBytes {
		return Portrait{}, fmt.Errorf("%w: %d bytes, limit %d", ErrImageTooLarge, len(raw), MaxPortraitBytes)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Portrait{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Portrait{}, fmt.Errorf("%w: empty raster", ErrUnsupportedImage)
	}
	if cfg.Width*cfg.Height > MaxSourcePixels {
		return Portrait{}, fmt.Errorf("%w: %dx%d pixels", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Portrait{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, PortraitSize, PortraitSize))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, squareCrop(img.Bounds()), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Portrait{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return Portrait{Base64: base64.StdEncoding.EncodeToString(buf.Bytes())}, nil
}

// ParsePortrait validates a portrait previously produced by Ingest and
// held by a client. An empty string is the default portrait. Anything that
// is not base64 of a PortraitSize square JPEG is rejected.
func ParsePortrait(b64 string) (Portrait, error) {
	if b64 == "" || b64 == defaultPortraitBase64 {
		return DefaultPortrait(), nil
	}
	if base64.StdEncoding.DecodedLen(len(b64)) > MaxPortraitBytes {
		return Portrait{}, fmt.Errorf("%w: encoded portrait exceeds %d bytes", ErrImageTooLarge, MaxPortraitBytes)
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return Portrait{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Portrait{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width != PortraitSize || cfg.Height != PortraitSize {
		return Portrait{}, fmt.Errorf("%w: portrait is %dx%d, want %dx%d", ErrUnsupportedImage, cfg.Width, cfg.Height, PortraitSize, PortraitSize)
	}
	return Portrait{Base64: base64.StdEncoding.EncodeToString(raw)}, nil
}

// IngestReader reads at most one byte past the ceiling from r and
// normalizes the result.
func IngestReader(r io.Reader) (Portrait, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxPortraitBytes+1))
	if err != nil {
		return Portrait{}, fmt.Errorf("read portrait: %w", err)
	}
	return Ingest(raw)
}

// IngestAsset fetches the named asset from src and normalizes it like any
// uploaded image.
func IngestAsset(ctx context.Context, src AssetSource, name string) (Portrait, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return Portrait{}, fmt.Errorf("open portrait %s: %w", name, err)
	}
	defer rc.Close()
	return IngestReader(rc)
}

// squareCrop returns the largest square centred in r. Odd leftovers go to
// the right and bottom edges.
func squareCrop(r image.Rectangle) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	if w > h {
		x := r.Min.X + (w-h)/2
		return image.Rect(x, r.Min.Y, x+h, r.Max.Y)
	}
	y := r.Min.Y + (h-w)/2
	return image.Rect(r.Min.X, y, r.Max.X, y+w)
}
