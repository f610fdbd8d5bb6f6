package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MindHardt/charsheet"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a character sheet to a file",
	Long: `Composes the sheet with the given portrait and writes {name}_front.svg,
{name}_back.svg or, when both pages are included, {name}.zip.`,
	Example: `  charsheet export --portrait me.jpg --name "My Hero"
  charsheet export --gallery elf.f.png --back=false --out sheets/`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	f := exportCmd.Flags()
	f.String("portrait", "", "portrait image file")
	f.String("gallery", "", "gallery portrait key, as listed by the gallery command")
	f.Bool("front", true, "include the front page")
	f.Bool("back", true, "include the back page")
	f.String("name", "", "output base name (default \"charsheet\")")
	f.String("out", ".", "output directory")
	exportCmd.MarkFlagsMutuallyExclusive("portrait", "gallery")
}

func runExport(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	portraitPath, _ := f.GetString("portrait")
	galleryKey, _ := f.GetString("gallery")
	front, _ := f.GetBool("front")
	back, _ := f.GetBool("back")
	name, _ := f.GetString("name")
	out, _ := f.GetString("out")

	assets, err := assetSource(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	session := charsheet.NewSession(assets, charsheet.NewGallery(assets, nil))
	if err := session.Load(ctx); err != nil {
		return err
	}

	switch {
	case portraitPath != "":
		file, err := os.Open(portraitPath)
		if err != nil {
			return err
		}
		err = session.IngestReader(file)
		file.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", portraitPath, err)
		}
	case galleryKey != "":
		if err := session.SelectGallery(ctx, galleryKey); err != nil {
			return err
		}
	}

	session.SetSelection(charsheet.Selection{IncludeFront: front, IncludeBack: back, FileName: name})

	saver := charsheet.NewDirSaver(out)
	defer saver.Close()
	artifact, err := session.Export(ctx, saver)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", filepath.Join(out, artifact.Name), len(artifact.Data))
	return nil
}
