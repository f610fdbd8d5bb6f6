package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGalleryCommand(t *testing.T) {
	out, err := execute(t, "gallery")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "elf.f.png")
	assert.Contains(t, out, "Serpent ♀")
}

func TestExportCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sheets")

	out, err := execute(t, "export", "--gallery", "kitsune.f.png", "--name", "Aria", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Aria.zip")

	zr, err := zip.OpenReader(filepath.Join(dir, "Aria.zip"))
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"Aria_front.svg", "Aria_back.svg"}, names)
}

func TestExportCommandRejectsEmptySelection(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "export", "--front=false", "--back=false", "--out", dir)
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
