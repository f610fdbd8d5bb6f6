package charsheet

import "strings"

// DefaultFileBaseName is used when the user leaves the file name blank.
const DefaultFileBaseName = "charsheet"

// PlaceholderToken marks the portrait slot in front templates. It is the
// data URI of the default portrait, so an untouched template still renders.
var PlaceholderToken = DefaultPortrait().DataURI()

// ComposeFront replaces every placeholder in tpl with p. The default
// portrait replaces the placeholder with itself.
func ComposeFront(tpl string, p Portrait) Page {
	return Page{Side: Front, Content: strings.ReplaceAll(tpl, PlaceholderToken, p.DataURI())}
}

// ComposeBack returns the back template unchanged.
func ComposeBack(tpl string) Page {
	return Page{Side: Back, Content: tpl}
}

// ResolveFileBaseName trims s and falls back to DefaultFileBaseName when
// nothing is left.
func ResolveFileBaseName(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return DefaultFileBaseName
	}
	return s
}

// ComposePages composes the pages included by sel, front first.
func ComposePages(t Templates, p Portrait, sel Selection) ([]Page, error) {
	if !sel.IncludeFront && !sel.IncludeBack {
		return nil, ErrInvalidSelection
	}
	if !t.Loaded() {
		return nil, ErrTemplateLoad
	}
	pages := make([]Page, 0, 2)
	if sel.IncludeFront {
		pages = append(pages, ComposeFront(t.Front, p))
	}
	if sel.IncludeBack {
		pages = append(pages, ComposeBack(t.Back))
	}
	return pages, nil
}
