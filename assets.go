package charsheet

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"
)

// AssetSource opens named assets: page templates and gallery portraits.
// Names are slash-separated and relative, e.g. "svg/charsheet-front.svg".
type AssetSource interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FSAssets serves assets from a file system, typically EmbeddedAssets or
// os.DirFS.
type FSAssets struct {
	FS fs.FS
}

// Open implements AssetSource.
func (a FSAssets) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.FS.Open(name)
}

// HTTPAssets fetches assets relative to a base URL.
type HTTPAssets struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPAssets returns an HTTPAssets with a bounded client timeout.
func NewHTTPAssets(baseURL string) *HTTPAssets {
	return &HTTPAssets{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Open implements AssetSource. A 404 response is reported as fs.ErrNotExist.
func (a *HTTPAssets) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL(a.BaseURL, name), nil)
	if err != nil {
		return nil, err
	}
	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %w", name, fs.ErrNotExist)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", name, resp.Status)
	}
	return resp.Body, nil
}

// NewAssetSource picks an HTTPAssets for http(s) locations, a directory
// source for other non-empty locations and EmbeddedAssets otherwise.
func NewAssetSource(location string) (AssetSource, error) {
	switch {
	case location == "":
		sub, err := fs.Sub(EmbeddedAssets, "embedded")
		if err != nil {
			return nil, err
		}
		return FSAssets{FS: sub}, nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPAssets(location), nil
	default:
		info, err := os.Stat(location)
		if err != nil {
			return nil, fmt.Errorf("asset dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("asset dir: %s is not a directory", location)
		}
		return FSAssets{FS: os.DirFS(location)}, nil
	}
}

func readAsset(ctx context.Context, src AssetSource, name string) ([]byte, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
