package charsheet

// Side identifies one page of the character sheet.
type Side string

const (
	Front Side = "front"
	Back  Side = "back"
)

// Portrait is a normalized portrait: base64 text of a fixed-size JPEG.
// Values are replaced wholesale, never edited in place.
type Portrait struct {
	Base64 string
}

// DataURI returns the portrait in the form embedded into page templates.
func (p Portrait) DataURI() string {
	return "data:" + PortraitContentType + ";base64," + p.Base64
}

// IsDefault reports whether p is the built-in blank portrait.
func (p Portrait) IsDefault() bool {
	return p.Base64 == defaultPortraitBase64
}

// Templates holds the raw front and back page templates.
type Templates struct {
	Front string
	Back  string
}

// Selection is the user's export choice.
type Selection struct {
	IncludeFront bool   `json:"front" form:"front"`
	IncludeBack  bool   `json:"back" form:"back"`
	FileName     string `json:"name" form:"name" validate:"max=128"`
}

// DefaultSelection includes both pages under the default file name.
func DefaultSelection() Selection {
	return Selection{IncludeFront: true, IncludeBack: true}
}

// Page is a page after placeholder substitution.
type Page struct {
	Side    Side
	Content string
}

// Artifact is an exported file ready to be handed to a Saver.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}
