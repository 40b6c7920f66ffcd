package main

import (
	"github.com/spf13/cobra"

	"contactsheet/internal/tags"
)

func newTagsCommand(ctx *commandContext) *cobra.Command {
	var photoTags bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List the tags discovered in the source directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			batch, err := tags.FromFolders(cfg.Paths.SourceDir, cfg.Organize.PhotoSubdir)
			if err != nil {
				return err
			}
			if photoTags {
				embedded, err := tags.FromPhotos(cfg.Paths.SourceDir, ctx.ensureLogger())
				if err != nil {
					return err
				}
				batch = append(batch, embedded...)
			}

			if jsonOutput {
				return writeJSON(cmd, batch)
			}

			rows := make([][]string, 0, len(batch))
			for _, tag := range batch {
				kind := "photo"
				if tag.Context != "" {
					kind = "folder"
				}
				rows = append(rows, []string{tag.RawLabel, kind, tag.Source})
			}
			writeTable(cmd.OutOrStdout(), []string{"Label", "Kind", "Source"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&photoTags, "photo-tags", false, "Include keywords embedded in the photos themselves")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit tags as JSON")
	return cmd
}
