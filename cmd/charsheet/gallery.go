package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MindHardt/charsheet"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "List the built-in gallery portraits",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKEY")
		for _, e := range charsheet.GalleryEntries() {
			fmt.Fprintf(w, "%s\t%s\n", e.Name, e.Key)
		}
		return w.Flush()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the charsheet version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "charsheet %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(galleryCmd, versionCmd)
}
