package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/weiju/adftools/physical"
	"github.com/weiju/adftools/volume"
)

var makedirCmd = &cobra.Command{
	Use:                   "makedir FILE PATH",
	Short:                 "Create a new directory in an ADF image",
	Long:                  `Create a new, empty directory at PATH inside the ADF image FILE and write the image back.`,
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename, path := args[0], args[1]

		data, err := os.ReadFile(filename)
		if err != nil {
			return err
		}
		img, err := physical.OpenImage(data)
		if err != nil {
			return err
		}
		vol := volume.New(img)

		if err := vol.Makedir(path); err != nil {
			return err
		}
		return os.WriteFile(filename, img.Bytes(), 0644)
	},
}

func init() {
	rootCmd.AddCommand(makedirCmd)
}
