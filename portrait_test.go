package charsheet

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"
)

// encodePNG returns a w x h gradient PNG.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 7), uint8(y * 5), uint8((x + y) * 3), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// pngHeaderOnly returns a PNG signature and IHDR chunk claiming w x h
// pixels, enough for image.DecodeConfig.
func pngHeaderOnly(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 2 // truecolor
	chunk := append([]byte("IHDR"), ihdr...)
	binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func decodePortrait(t *testing.T, p Portrait) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(p.Base64)
	if err != nil {
		t.Fatalf("portrait is not base64: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("portrait is not a jpeg: %v", err)
	}
	return img
}

func TestIngestIsDeterministic(t *testing.T) {
	raw := encodePNG(t, 120, 90)

	first, err := Ingest(raw)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := Ingest(raw)
		if err != nil {
			t.Fatalf("Ingest failed: %v", err)
		}
		if again != first {
			t.Fatalf("Ingest run %d differs from first run", i+2)
		}
	}
}

func TestIngestNormalizesToSquare(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"landscape", 300, 100},
		{"portrait", 100, 300},
		{"square", 64, 64},
		{"upscale single pixel", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Ingest(encodePNG(t, tt.w, tt.h))
			if err != nil {
				t.Fatalf("Ingest failed: %v", err)
			}
			b := decodePortrait(t, p).Bounds()
			if b.Dx() != PortraitSize || b.Dy() != PortraitSize {
				t.Errorf("bounds = %dx%d, want %dx%d", b.Dx(), b.Dy(), PortraitSize, PortraitSize)
			}
			if !strings.HasPrefix(p.DataURI(), "data:image/jpeg;base64,") {
				t.Errorf("DataURI = %.40q, want jpeg data URI", p.DataURI())
			}
		})
	}
}

func TestIngestRejectsOversizedInput(t *testing.T) {
	raw := make([]byte, MaxPortraitBytes+1)
	_, err := Ingest(raw)
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("err = %v, want ErrImageTooLarge", err)
	}
}

func TestIngestAcceptsInputAtCeiling(t *testing.T) {
	raw := encodePNG(t, 16, 16)
	padded := make([]byte, MaxPortraitBytes)
	copy(padded, raw)
	// Trailing bytes after IEND are ignored by the PNG decoder.
	if _, err := Ingest(padded); err != nil {
		t.Fatalf("Ingest at ceiling failed: %v", err)
	}
}

func TestIngestRejectsHugeRaster(t *testing.T) {
	_, err := Ingest(pngHeaderOnly(5000, 4000))
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("err = %v, want ErrImageTooLarge", err)
	}
}

func TestIngestRejectsUndecodableInput(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte("not an image"), []byte("<svg/>")} {
		_, err := Ingest(raw)
		if !errors.Is(err, ErrUnsupportedImage) {
			t.Errorf("Ingest(%q) err = %v, want ErrUnsupportedImage", raw, err)
		}
	}
}

func TestIngestReaderStopsPastCeiling(t *testing.T) {
	r := bytes.NewReader(make([]byte, 3*MaxPortraitBytes))
	_, err := IngestReader(r)
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("err = %v, want ErrImageTooLarge", err)
	}
	if read := 3*MaxPortraitBytes - r.Len(); read != MaxPortraitBytes+1 {
		t.Errorf("read %d bytes, want %d", read, MaxPortraitBytes+1)
	}
}

func TestIngestAssetMatchesIngest(t *testing.T) {
	raw := encodePNG(t, 40, 60)
	src := FSAssets{FS: fstest.MapFS{"portraits/x.png": {Data: raw}}}

	fromAsset, err := IngestAsset(context.Background(), src, "portraits/x.png")
	if err != nil {
		t.Fatalf("IngestAsset failed: %v", err)
	}
	direct, err := Ingest(raw)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if fromAsset != direct {
		t.Error("asset normalization differs from direct normalization")
	}
}

func TestClearReturnsDefault(t *testing.T) {
	if Clear() != DefaultPortrait() {
		t.Fatal("Clear() != DefaultPortrait()")
	}
	if !Clear().IsDefault() {
		t.Error("Clear().IsDefault() = false")
	}
	img := decodePortrait(t, Clear())
	if b := img.Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("default portrait is %dx%d, want 1x1", b.Dx(), b.Dy())
	}
}

func TestParsePortrait(t *testing.T) {
	normalized, err := Ingest(encodePNG(t, 20, 20))
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	var small bytes.Buffer
	if err := jpeg.Encode(&small, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		in      string
		want    Portrait
		wantErr error
	}{
		{"empty is default", "", DefaultPortrait(), nil},
		{"default", DefaultPortrait().Base64, DefaultPortrait(), nil},
		{"normalized", normalized.Base64, normalized, nil},
		{"not base64", `"/><script>alert(1)</script>`, Portrait{}, ErrUnsupportedImage},
		{"png", base64.StdEncoding.EncodeToString(encodePNG(t, 512, 512)), Portrait{}, ErrUnsupportedImage},
		{"wrong size", base64.StdEncoding.EncodeToString(small.Bytes()), Portrait{}, ErrUnsupportedImage},
		{"oversized", strings.Repeat("A", 2*MaxPortraitBytes), Portrait{}, ErrImageTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePortrait(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePortrait failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePortrait returned a different portrait")
			}
		})
	}
}

func TestSquareCrop(t *testing.T) {
	tests := []struct {
		in, want image.Rectangle
	}{
		{image.Rect(0, 0, 300, 100), image.Rect(100, 0, 200, 100)},
		{image.Rect(0, 0, 100, 301), image.Rect(0, 100, 100, 200)},
		{image.Rect(10, 20, 60, 70), image.Rect(10, 20, 60, 70)},
		{image.Rect(5, 5, 8, 6), image.Rect(6, 5, 7, 6)},
	}
	for _, tt := range tests {
		if got := squareCrop(tt.in); got != tt.want {
			t.Errorf("squareCrop(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
