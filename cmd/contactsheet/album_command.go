package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contactsheet/internal/album"
	"contactsheet/internal/report"
)

func newAlbumCommand(ctx *commandContext) *cobra.Command {
	var photoTags bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "album",
		Short: "Render matched contacts and their photos as a static HTML album",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runPipeline(cmd.Context(), ctx, photoTags)
			if err != nil {
				return err
			}

			builder := album.New(result.cfg, ctx.ensureLogger())
			path, err := builder.Build(cmd.Context(), result.assignments)
			if err != nil {
				return err
			}
			recordHistory(cmd.Context(), ctx, "album", result)

			if jsonOutput {
				return writeJSON(cmd, struct {
					Summary report.Summary `json:"summary"`
					Album   string         `json:"album"`
				}{result.summary, path})
			}

			out := cmd.OutOrStdout()
			if err := report.Render(out, result.summary); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nAlbum written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&photoTags, "photo-tags", false, "Also match keywords embedded in the photos themselves")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run summary as JSON")
	return cmd
}
