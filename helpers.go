package charsheet

import (
	"net/url"
	"path"
	"strings"
)

// assetURL joins a base URL with a relative asset name.
func assetURL(base, name string) string {
	u, err := url.Parse(base)
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + name
	}
	u.Path = path.Join("/", u.Path, name)
	return u.String()
}

// attachmentDisposition builds a Content-Disposition header value. The
// plain filename is ASCII-folded; filename* carries the exact UTF-8 name.
func attachmentDisposition(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('_')
		case r < 0x20 || r > 0x7e:
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return `attachment; filename="` + b.String() + `"; filename*=UTF-8''` + strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}
