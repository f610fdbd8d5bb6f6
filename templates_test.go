package charsheet

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func embeddedAssets(t *testing.T) AssetSource {
	t.Helper()
	src, err := NewAssetSource("")
	if err != nil {
		t.Fatalf("embedded assets: %v", err)
	}
	return src
}

func TestLoadEmbeddedTemplates(t *testing.T) {
	tpls, err := LoadTemplates(context.Background(), embeddedAssets(t), FrontTemplatePath, BackTemplatePath)
	if err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}
	if !tpls.Loaded() {
		t.Fatal("templates not loaded")
	}
	if !strings.Contains(tpls.Front, PlaceholderToken) {
		t.Error("front template has no portrait placeholder")
	}
	if !strings.HasPrefix(strings.TrimSpace(tpls.Back), "<") {
		t.Error("back template does not look like markup")
	}
}

func TestLoadTemplatesFailures(t *testing.T) {
	tests := []struct {
		name string
		fs   fstest.MapFS
	}{
		{"missing front", fstest.MapFS{"b.svg": {Data: []byte("<svg/>")}}},
		{"missing back", fstest.MapFS{"f.svg": {Data: []byte("<svg/>")}}},
		{"empty front", fstest.MapFS{"f.svg": {Data: nil}, "b.svg": {Data: []byte("<svg/>")}}},
		{"invalid utf8", fstest.MapFS{"f.svg": {Data: []byte("<svg/>")}, "b.svg": {Data: []byte{0xff, 0xfe, 0x00}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpls, err := LoadTemplates(context.Background(), FSAssets{FS: tt.fs}, "f.svg", "b.svg")
			if !errors.Is(err, ErrTemplateLoad) {
				t.Fatalf("err = %v, want ErrTemplateLoad", err)
			}
			if tpls.Loaded() {
				t.Error("templates reported loaded after failure")
			}
		})
	}
}

func TestLoadTemplatesWrapsCause(t *testing.T) {
	_, err := LoadTemplates(context.Background(), FSAssets{FS: fstest.MapFS{}}, "f.svg", "b.svg")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want it to wrap fs.ErrNotExist", err)
	}
}

func TestFSAssetsHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FSAssets{FS: fstest.MapFS{"a": {Data: []byte("x")}}}.Open(ctx, "a")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestHTTPAssets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/assets/svg/charsheet-front.svg":
			io.WriteString(w, "<svg>front</svg>")
		case "/assets/svg/charsheet-back.svg":
			io.WriteString(w, "<svg>back</svg>")
		case "/assets/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src, err := NewAssetSource(srv.URL + "/assets/")
	if err != nil {
		t.Fatalf("NewAssetSource failed: %v", err)
	}
	if _, ok := src.(*HTTPAssets); !ok {
		t.Fatalf("NewAssetSource returned %T, want *HTTPAssets", src)
	}

	tpls, err := LoadTemplates(context.Background(), src, FrontTemplatePath, BackTemplatePath)
	if err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}
	if tpls.Front != "<svg>front</svg>" || tpls.Back != "<svg>back</svg>" {
		t.Errorf("templates = %+v", tpls)
	}

	if _, err := src.Open(context.Background(), "nope.svg"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing asset err = %v, want fs.ErrNotExist", err)
	}
	if _, err := src.Open(context.Background(), "broken"); err == nil || errors.Is(err, fs.ErrNotExist) {
		t.Errorf("broken asset err = %v, want non-404 failure", err)
	}
}

func TestNewAssetSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	src, err := NewAssetSource(dir)
	if err != nil {
		t.Fatalf("NewAssetSource(dir) failed: %v", err)
	}
	if _, ok := src.(FSAssets); !ok {
		t.Errorf("NewAssetSource(dir) returned %T, want FSAssets", src)
	}
	if _, err := NewAssetSource(dir + "/missing"); err == nil {
		t.Error("NewAssetSource accepted a missing directory")
	}
}

func TestAssetURL(t *testing.T) {
	tests := []struct {
		base, name, want string
	}{
		{"https://cdn.example.com", "svg/a.svg", "https://cdn.example.com/svg/a.svg"},
		{"https://cdn.example.com/static/", "svg/a.svg", "https://cdn.example.com/static/svg/a.svg"},
		{"http://localhost:8080/x", "portraits/elf.f.png", "http://localhost:8080/x/portraits/elf.f.png"},
	}
	for _, tt := range tests {
		if got := assetURL(tt.base, tt.name); got != tt.want {
			t.Errorf("assetURL(%q, %q) = %q, want %q", tt.base, tt.name, got, tt.want)
		}
	}
}

func TestAttachmentDisposition(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{"charsheet.zip", `attachment; filename="charsheet.zip"; filename*=UTF-8''charsheet.zip`},
		{"My Hero.zip", `attachment; filename="My Hero.zip"; filename*=UTF-8''My%20Hero.zip`},
		{`a"b.svg`, `attachment; filename="a_b.svg"; filename*=UTF-8''a%22b.svg`},
		{"Ёж.svg", `attachment; filename="__.svg"; filename*=UTF-8''%D0%81%D0%B6.svg`},
	}
	for _, tt := range tests {
		if got := attachmentDisposition(tt.name); got != tt.want {
			t.Errorf("attachmentDisposition(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
