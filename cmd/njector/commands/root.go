// Package commands implements the njector CLI.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/njector/pkg/njector/config"
	"github.com/randalmurphal/njector/pkg/njector/journal"
)

// Version is injected at build time.
var Version = "dev"

// ErrNoJournal is returned when neither --db nor a settings file selects a
// persistent journal.
var ErrNoJournal = errors.New("no persistent journal configured")

type rootOptions struct {
	cfgFile string
	dbPath  string
	output  string
}

// NewRootCmd builds the command tree. Each call returns independent state.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "njector",
		Short: "njector - inspect service registry settings and journals",
		Long: `njector inspects the settings file and the SQLite registration journal
used by a host program embedding the njector service locator.

Use "njector [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "settings file (yaml or json)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite journal path, overrides the settings file")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "output format (table|json)")

	root.AddCommand(newJournalCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newVersionCmd())

	root.CompletionOptions.DisableDefaultCmd = true
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "njector %s\n", Version)
		},
	}
}

// settings returns the settings file contents, or defaults when no file was given.
func (o *rootOptions) settings() (config.Settings, error) {
	if o.cfgFile == "" {
		return config.DefaultSettings(), nil
	}
	return config.LoadSettings(o.cfgFile)
}

// openJournal opens the journal selected by --db or the settings file.
func (o *rootOptions) openJournal() (journal.Store, error) {
	js := config.JournalSettings{Driver: config.JournalSQLite, Path: o.dbPath}
	if o.dbPath == "" {
		s, err := o.settings()
		if err != nil {
			return nil, err
		}
		js = s.Journal
	}

	if js.Driver != config.JournalSQLite {
		return nil, fmt.Errorf("%w: driver %q", ErrNoJournal, js.Driver)
	}

	// Opening a missing path would create an empty database
	if _, err := os.Stat(js.Path); err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return journal.Open(js)
}
