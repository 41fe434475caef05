package main

import (
	"fmt"

	"github.com/handiism/bgm/internal/audio"
	"github.com/spf13/cobra"
)

func newTagsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tags <file>...",
		Short: "Print the title and artist read from ID3 tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := root.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			decoder := audio.NewTagDecoder(logger)
			out := cmd.OutOrStdout()

			for _, path := range args {
				tag := decoder.Read(path)

				source := "tag"
				if !tag.HasTitle {
					source = "file name"
				}

				fmt.Fprintln(out, path)
				fmt.Fprintf(out, "  Title:  %s (%s)\n", tag.Title, source)
				fmt.Fprintf(out, "  Artist: %s\n", tag.Artist)
			}
			return nil
		},
	}
}
