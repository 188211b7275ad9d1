// Command wfi extracts exportable assets from a design file and
// downloads them as an archive or as individual files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wfi",
	Short: "Extract and download assets from a design file",
	Long: `wfi walks a design file's document tree, classifies exportable assets
(images, vectors, text, components, frames, fonts), and downloads the
selection as a zip archive or as individual files.

Usage:
  wfi extract <project-url> [flags]`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
