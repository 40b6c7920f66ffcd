package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"contactsheet/internal/contacts"
	"contactsheet/internal/organize"
	"contactsheet/internal/services"
)

func newContactsCommand(ctx *commandContext) *cobra.Command {
	contactsCmd := &cobra.Command{
		Use:   "contacts",
		Short: "Inspect the configured contact file",
	}
	contactsCmd.AddCommand(newContactsListCommand(ctx))
	contactsCmd.AddCommand(newContactsShowCommand(ctx))
	return contactsCmd
}

func newContactsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List parsed contact records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := contacts.Load(cfg.Paths.ContactsFile)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, dir.Records())
			}

			rows := make([][]string, 0, dir.Len())
			for _, record := range dir.Records() {
				rows = append(rows, []string{
					strconv.Itoa(record.SourceOrder),
					record.Name,
					record.Affiliation,
					strings.Join(record.Phones, ", "),
				})
			}
			writeTable(cmd.OutOrStdout(), []string{"#", "Name", "Affiliation", "Phones"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit records as JSON")
	return cmd
}

func newContactsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show every record for one name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := contacts.Load(cfg.Paths.ContactsFile)
			if err != nil {
				return err
			}

			records := dir.ByName(args[0])
			if len(records) == 0 {
				return services.Wrap(services.ErrNotFound, "contacts", "show",
					fmt.Sprintf("no record named %q", args[0]), nil)
			}

			if jsonOutput {
				return writeJSON(cmd, records)
			}

			out := cmd.OutOrStdout()
			for i, record := range records {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, organize.ContactText(*record))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit records as JSON")
	return cmd
}
