package charsheet

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// Default template locations inside an AssetSource.
const (
	FrontTemplatePath = "svg/charsheet-front.svg"
	BackTemplatePath  = "svg/charsheet-back.svg"
)

// LoadTemplates reads the front and back templates from src. Both must be
// present, non-empty and valid UTF-8. Templates are read once per session;
// there is no reload.
func LoadTemplates(ctx context.Context, src AssetSource, frontPath, backPath string) (Templates, error) {
	front, err := loadTemplate(ctx, src, frontPath)
	if err != nil {
		return Templates{}, err
	}
	back, err := loadTemplate(ctx, src, backPath)
	if err != nil {
		return Templates{}, err
	}
	return Templates{Front: front, Back: back}, nil
}

func loadTemplate(ctx context.Context, src AssetSource, name string) (string, error) {
	data, err := readAsset(ctx, src, name)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrTemplateLoad, name, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrTemplateLoad, name)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrTemplateLoad, name)
	}
	return string(data), nil
}

// Loaded reports whether both templates are present.
func (t Templates) Loaded() bool {
	return t.Front != "" && t.Back != ""
}
