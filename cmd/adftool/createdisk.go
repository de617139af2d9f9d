package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/weiju/adftools/block"
	"github.com/weiju/adftools/physical"
	"github.com/weiju/adftools/volume"
)

var (
	creatediskFFS           bool
	creatediskInternational bool
	creatediskUseDircache   bool
	creatediskHighDensity   bool
)

var creatediskCmd = &cobra.Command{
	Use:                   "createdisk FILE",
	Short:                 "Write a blank, boot-block-only ADF image",
	Long: `Write a new ADF image of the given density, stamped with the "DOS" magic
and filesystem flags. It has no root block or bitmap.`,
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		kind := physical.DD
		if creatediskHighDensity {
			kind = physical.HD
		}
		img := physical.NewImage(kind)
		vol := volume.New(img)

		fsType := block.OFS
		if creatediskFFS {
			fsType = block.FFS
		}
		vol.Initialize(fsType, creatediskInternational, creatediskUseDircache)

		return os.WriteFile(filename, img.Bytes(), 0644)
	},
}

func init() {
	creatediskCmd.Flags().BoolVar(&creatediskFFS, "ffs", false, "Use the Fast File System instead of the Old File System")
	creatediskCmd.Flags().BoolVar(&creatediskInternational, "international", false, "Set the international mode flag")
	creatediskCmd.Flags().BoolVar(&creatediskUseDircache, "dircache", false, "Set the directory cache flag")
	creatediskCmd.Flags().BoolVar(&creatediskHighDensity, "hd", false, "Create a high-density image instead of double-density")
	rootCmd.AddCommand(creatediskCmd)
}
