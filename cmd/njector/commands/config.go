package commands

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Validate the settings file and display the resolved values",
		Long: `Validate the settings file and display the resolved values.

Examples:
  njector config show --config ./njector.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(opts.output)
			if err != nil {
				return err
			}

			s, err := opts.settings()
			if err != nil {
				return err
			}

			if format == formatJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"log_level": s.LogLevel.String(),
					"metrics":   s.Metrics,
					"tracing":   s.Tracing,
					"journal": map[string]string{
						"driver": s.Journal.Driver,
						"path":   s.Journal.Path,
					},
				})
			}

			return printPairs(cmd.OutOrStdout(), [][2]string{
				{"log_level", s.LogLevel.String()},
				{"metrics", strconv.FormatBool(s.Metrics)},
				{"tracing", strconv.FormatBool(s.Tracing)},
				{"journal.driver", s.Journal.Driver},
				{"journal.path", s.Journal.Path},
			})
		},
	})
	return cmd
}
