package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adftool",
	Short: "Inspect and edit AmigaDOS ADF floppy disk images",
	Long: `adftool reads and writes AmigaDOS ADF floppy disk images: listing
directories, creating directories, and deleting files or empty
directories.`,
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
