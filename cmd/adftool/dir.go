package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weiju/adftools/block"
	"github.com/weiju/adftools/physical"
	"github.com/weiju/adftools/volume"
)

var dirPath string

var dirCmd = &cobra.Command{
	Use:                   "dir FILE",
	Short:                 "List a directory's contents",
	Long:                  `List the file and directory entries under a path in an ADF image.`,
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return err
		}
		img, err := physical.OpenImage(data)
		if err != nil {
			return err
		}
		vol := volume.New(img)

		dir, err := vol.HeaderForPath(dirPath)
		if err != nil {
			return err
		}
		if !dir.IsDirectory() && !dir.IsRoot() {
			return fmt.Errorf("%q is not a directory", dirPath)
		}

		for i := 0; i < dir.HashtableSize(); i++ {
			blocknum, err := dir.HashtableEntryAt(i)
			if err != nil {
				return err
			}
			for blocknum != 0 {
				entry, err := block.NewHeaderBlock(img, blocknum)
				if err != nil {
					return err
				}
				kind := "file"
				if entry.IsDirectory() {
					kind = "dir"
				}
				fmt.Printf("%-30s %-5s %s\n", entry.Name(), kind, entry.LastModificationTime().Format("2006-01-02 15:04:05"))
				blocknum = entry.NextHash()
			}
		}
		return nil
	},
}

func init() {
	dirCmd.Flags().StringVarP(&dirPath, "path", "p", "", "Directory path to list (default: root)")
	rootCmd.AddCommand(dirCmd)
}
