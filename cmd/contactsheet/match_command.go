package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contactsheet/internal/report"
)

// newMatchCommand runs the matching stage without writing any output
// tree, so a collection can be checked before organizing it.
func newMatchCommand(ctx *commandContext) *cobra.Command {
	var photoTags bool
	var jsonOutput bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Resolve tags against the contact file without writing output",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runPipeline(cmd.Context(), ctx, photoTags)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result.summary)
			}

			out := cmd.OutOrStdout()
			if verbose {
				for _, assignment := range result.assignments {
					fmt.Fprintln(out, describeAssignment(assignment))
				}
				fmt.Fprintln(out)
			}
			return report.Render(out, result.summary)
		},
	}

	cmd.Flags().BoolVar(&photoTags, "photo-tags", false, "Also match keywords embedded in the photos themselves")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run summary as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every tag with its resolved contacts")
	return cmd
}
