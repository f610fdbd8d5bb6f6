package charsheet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

const (
	SVGContentType = "image/svg+xml"
	ZipContentType = "application/zip"
)

// PageFileName returns the file name of a single exported page.
func PageFileName(baseName string, side Side) string {
	return baseName + "_" + string(side) + ".svg"
}

// Export packages pages under baseName. One page is returned as raw SVG
// named {base}_{side}.svg; two pages are zipped into {base}.zip with one
// entry per page. On failure no artifact is returned.
func Export(pages []Page, baseName string) (Artifact, error) {
	switch len(pages) {
	case 1:
		p := pages[0]
		return Artifact{
			Name:        PageFileName(baseName, p.Side),
			ContentType: SVGContentType,
			Data:        []byte(p.Content),
		}, nil
	case 2:
		if pages[0].Side == pages[1].Side {
			return Artifact{}, fmt.Errorf("%w: %s page given twice", ErrInvalidSelection, pages[0].Side)
		}
		var buf bytes.Buffer
		if err := writeArchive(&buf, pages, baseName); err != nil {
			return Artifact{}, err
		}
		return Artifact{
			Name:        baseName + ".zip",
			ContentType: ZipContentType,
			Data:        buf.Bytes(),
		}, nil
	default:
		return Artifact{}, fmt.Errorf("%w: %d pages", ErrInvalidSelection, len(pages))
	}
}

func writeArchive(w io.Writer, pages []Page, baseName string) error {
	zw := zip.NewWriter(w)
	for _, p := range pages {
		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:   PageFileName(baseName, p.Side),
			Method: zip.Deflate,
		})
		if err != nil {
			return fmt.Errorf("%w: create %s entry: %w", ErrArchiveWrite, p.Side, err)
		}
		if _, err := io.WriteString(entry, p.Content); err != nil {
			return fmt.Errorf("%w: write %s entry: %w", ErrArchiveWrite, p.Side, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: finalize: %w", ErrArchiveWrite, err)
	}
	return nil
}

// Build runs the whole pipeline for one export action: validate the
// selection, compose the pages and package them.
func Build(t Templates, p Portrait, sel Selection) (Artifact, error) {
	pages, err := ComposePages(t, p, sel)
	if err != nil {
		return Artifact{}, err
	}
	return Export(pages, ResolveFileBaseName(sel.FileName))
}
