package commands

import (
	"github.com/spf13/cobra"

	"github.com/cubetools/wcacheck/internal/audit"
	"github.com/cubetools/wcacheck/internal/audit/scrambles"
	"github.com/cubetools/wcacheck/internal/export"
)

func scramblesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrambles",
		Short: "Validate scramble rows against per-event move grammars",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatched(cmd, func() error {
				l, err := openExport()
				if err != nil {
					return err
				}
				defer l.Close()

				comps, err := l.Competitions()
				if err != nil {
					return err
				}
				events, err := l.Events()
				if err != nil {
					return err
				}
				roundTypes, err := l.RoundTypes()
				if err != nil {
					return err
				}

				checker := scrambles.NewChecker(comps, events, roundTypes, cfg.MinYear)
				var violations []audit.Violation
				err = l.Scrambles(func(s export.Scramble) error {
					if v, ok := checker.Check(s); ok {
						violations = append(violations, v)
					}
					return nil
				})
				if err != nil {
					return err
				}

				path, err := reporter().Render(scrambles.Rule, violations)
				if err != nil {
					return err
				}
				ev := log.Info().Str("rule", scrambles.Rule).
					Int("checked", checker.Checked).
					Int("errors", checker.Errors())
				for column, n := range checker.Counts {
					ev = ev.Int("errors_"+column, n)
				}
				if l.Skipped() > 0 {
					ev = ev.Int("skipped_rows", l.Skipped())
				}
				if path != "" {
					ev = ev.Str("report", path)
				}
				ev.Msg("check complete")
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&cfg.MinYear, "min-year", cfg.MinYear, "skip competitions before this year (0 checks everything)")
	addWatchFlags(cmd)
	return cmd
}
