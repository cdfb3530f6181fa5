package commands

import (
	"github.com/spf13/cobra"

	"github.com/cubetools/wcacheck/internal/audit/names"
)

func namesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "names",
		Short: "Flag competitor names with characters outside the allowed set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatched(cmd, func() error {
				l, err := openExport()
				if err != nil {
					return err
				}
				defer l.Close()

				persons, err := l.Persons()
				if err != nil {
					return err
				}
				return reportViolations(names.Rule, names.Check(persons), l.Skipped())
			})
		},
	}
	addWatchFlags(cmd)
	return cmd
}
