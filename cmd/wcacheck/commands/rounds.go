package commands

import (
	"github.com/spf13/cobra"

	"github.com/cubetools/wcacheck/internal/audit/rounds"
)

func roundsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rounds",
		Short: "Flag combined rounds where a worse-placed competitor has more results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatched(cmd, func() error {
				l, err := openExport()
				if err != nil {
					return err
				}
				defer l.Close()

				results, err := l.Results()
				if err != nil {
					return err
				}
				return reportViolations(rounds.Rule, rounds.Check(results), l.Skipped())
			})
		},
	}
	addWatchFlags(cmd)
	return cmd
}
