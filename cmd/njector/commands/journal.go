package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/njector/pkg/njector/journal"
)

func newJournalCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect a registration journal",
	}
	cmd.AddCommand(newJournalListCmd(opts))
	cmd.AddCommand(newJournalActiveCmd(opts))
	return cmd
}

func newJournalListCmd(opts *rootOptions) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries in sequence order",
		Long: `List every recorded serviceAdded and serviceRemoved notification.

Examples:
  # All entries
  njector journal list --db ./njector.db

  # History of one key, as JSON
  njector journal list --db ./njector.db --key db -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(opts.output)
			if err != nil {
				return err
			}

			store, err := opts.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			var entries []journal.Entry
			if key != "" {
				entries, err = store.ListByKey(key)
			} else {
				entries, err = store.List()
			}
			if err != nil {
				return err
			}

			if format == formatJSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}

			table := newTableData("SEQ", "TIME", "KIND", "KEY", "TYPE")
			for _, e := range entries {
				table.addRow(
					strconv.FormatInt(e.Sequence, 10),
					e.Timestamp.Format(time.RFC3339),
					e.Kind.String(),
					e.Key,
					e.ServiceType,
				)
			}
			return printTable(cmd.OutOrStdout(), table)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "only show entries for this service key")
	return cmd
}

func newJournalActiveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Show the keys registered at the end of the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(opts.output)
			if err != nil {
				return err
			}

			store, err := opts.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			keys, err := journal.Active(store)
			if err != nil {
				return err
			}

			if format == formatJSON {
				return printJSON(cmd.OutOrStdout(), keys)
			}

			table := newTableData("KEY")
			for _, k := range keys {
				table.addRow(k)
			}
			return printTable(cmd.OutOrStdout(), table)
		},
	}
}
