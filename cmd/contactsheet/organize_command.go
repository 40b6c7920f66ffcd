package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contactsheet/internal/organize"
	"contactsheet/internal/report"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var photoTags bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Write matched contacts and their photos as a file tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runPipeline(cmd.Context(), ctx, photoTags)
			if err != nil {
				return err
			}

			organizer := organize.New(result.cfg, ctx.ensureLogger())
			outcome, err := organizer.Run(cmd.Context(), result.assignments)
			if err != nil {
				return err
			}
			recordHistory(cmd.Context(), ctx, "organize", result)

			if jsonOutput {
				return writeJSON(cmd, struct {
					Summary report.Summary  `json:"summary"`
					Output  organize.Result `json:"output"`
				}{result.summary, outcome})
			}

			out := cmd.OutOrStdout()
			if err := report.Render(out, result.summary); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nWrote %d folders, %d contact files, %d photos to %s\n",
				outcome.Folders, outcome.ContactFiles, outcome.PhotosCopied, result.cfg.Paths.OutputDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&photoTags, "photo-tags", false, "Also match keywords embedded in the photos themselves")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run summary as JSON")
	return cmd
}
