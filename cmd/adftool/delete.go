package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/weiju/adftools/physical"
	"github.com/weiju/adftools/volume"
)

var deleteRecursive bool

var deleteCmd = &cobra.Command{
	Use:                   "delete FILE PATH",
	Short:                 "Delete a file or empty directory in an ADF image",
	Long:                  `Delete the file or directory at PATH inside the ADF image FILE and write the image back.`,
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

		if err := vol.Delete(path, deleteRecursive); err != nil {
			return err
		}
		return os.WriteFile(filename, img.Bytes(), 0644)
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteRecursive, "recursive", "r", false, "Recurse into non-empty directories (such a delete fails with an Unimplemented error)")
	rootCmd.AddCommand(deleteCmd)
}
