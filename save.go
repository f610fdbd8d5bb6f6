package charsheet

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
)

// Saver hands a finished artifact to the host for persistence. What
// happens after the hand-off (dialogs, cancellation) belongs to the host.
type Saver interface {
	Save(ctx context.Context, a Artifact) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, a Artifact) error

// Save implements Saver.
func (f SaverFunc) Save(ctx context.Context, a Artifact) error {
	return f(ctx, a)
}

// ResponseSaver delivers artifacts as HTTP attachment downloads.
type ResponseSaver struct {
	W http.ResponseWriter
}

// Save writes the artifact headers and body. Headers are frozen afterwards.
func (s ResponseSaver) Save(ctx context.Context, a Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h := s.W.Header()
	h.Set("Content-Type", a.ContentType)
	h.Set("Content-Disposition", attachmentDisposition(a.Name))
	h.Set("Content-Length", strconv.Itoa(len(a.Data)))
	h.Set("Cache-Control", "no-store")
	s.W.WriteHeader(http.StatusOK)
	_, err := s.W.Write(a.Data)
	return err
}

// DirSaver writes artifacts into a directory. The directory is created and
// opened on the first Save and released by Close. Artifact names are
// resolved inside the directory and cannot escape it.
type DirSaver struct {
	Dir string

	root *hostHandle[*os.Root]
}

// NewDirSaver returns a DirSaver for dir.
func NewDirSaver(dir string) *DirSaver {
	return &DirSaver{
		Dir: dir,
		root: newHostHandle(
			func(context.Context) (*os.Root, error) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("create output dir: %w", err)
				}
				return os.OpenRoot(dir)
			},
			(*os.Root).Close,
		),
	}
}

// Save implements Saver.
func (s *DirSaver) Save(ctx context.Context, a Artifact) error {
	root, err := s.root.get(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := root.Create(a.Name)
	if err != nil {
		return fmt.Errorf("save %s: %w", a.Name, err)
	}
	if _, err := f.Write(a.Data); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", a.Name, err)
	}
	return f.Close()
}

// Close releases the directory handle.
func (s *DirSaver) Close() error {
	return s.root.close()
}
