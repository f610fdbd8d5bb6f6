package main

import (
	"github.com/spf13/cobra"

	"github.com/MindHardt/charsheet"
)

var rootCmd = &cobra.Command{
	Use:   "charsheet",
	Short: "Compose and export two-sided character sheets",
	Long: `charsheet embeds a portrait into the front page of a character sheet and
exports the front, the back, or both pages as a ZIP archive.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("assets", charsheet.EnvOr("CHARSHEET_ASSETS", ""),
		"asset directory or http(s) base URL (default: built-in assets)")
}

func assetSource(cmd *cobra.Command) (charsheet.AssetSource, error) {
	location, _ := cmd.Flags().GetString("assets")
	return charsheet.NewAssetSource(location)
}
