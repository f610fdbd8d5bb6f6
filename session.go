package charsheet

import (
	"context"
	"io"
)

// Session holds one user's composition state: templates, the current
// portrait and the export selection. Every operation either replaces a
// value wholesale or leaves it untouched on error. A Session is not safe
// for concurrent use.
type Session struct {
	assets    AssetSource
	gallery   *Gallery
	templates Templates
	portrait  Portrait
	selection Selection
}

// NewSession returns a session with the default portrait and selection.
// Call Load before exporting.
func NewSession(assets AssetSource, gallery *Gallery) *Session {
	return &Session{
		assets:    assets,
		gallery:   gallery,
		portrait:  DefaultPortrait(),
		selection: DefaultSelection(),
	}
}

// Load fetches both page templates.
func (s *Session) Load(ctx context.Context) error {
	t, err := LoadTemplates(ctx, s.assets, FrontTemplatePath, BackTemplatePath)
	if err != nil {
		return err
	}
	s.templates = t
	return nil
}

// Templates returns the loaded templates.
func (s *Session) Templates() Templates { return s.templates }

// Portrait returns the current portrait.
func (s *Session) Portrait() Portrait { return s.portrait }

// Selection returns the current export selection.
func (s *Session) Selection() Selection { return s.selection }

// Ingest replaces the portrait with a normalized copy of raw.
func (s *Session) Ingest(raw []byte) error {
	p, err := Ingest(raw)
	if err != nil {
		return err
	}
	s.portrait = p
	return nil
}

// IngestReader is Ingest for a stream.
func (s *Session) IngestReader(r io.Reader) error {
	p, err := IngestReader(r)
	if err != nil {
		return err
	}
	s.portrait = p
	return nil
}

// SelectGallery replaces the portrait with the gallery entry key.
func (s *Session) SelectGallery(ctx context.Context, key string) error {
	p, err := s.gallery.Portrait(ctx, key)
	if err != nil {
		return err
	}
	s.portrait = p
	return nil
}

// ClearPortrait resets the portrait to the default.
func (s *Session) ClearPortrait() {
	s.portrait = Clear()
}

// SetSelection replaces the export selection. It is validated at export.
func (s *Session) SetSelection(sel Selection) {
	s.selection = sel
}

// Export builds the artifact for the current state and hands it to saver.
func (s *Session) Export(ctx context.Context, saver Saver) (Artifact, error) {
	a, err := Build(s.templates, s.portrait, s.selection)
	if err != nil {
		return Artifact{}, err
	}
	if err := saver.Save(ctx, a); err != nil {
		return Artifact{}, err
	}
	return a, nil
}
