package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cubetools/wcacheck/internal/audit/records"
)

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Check stored record markers against the computed record history",
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
				comps, err := l.Competitions()
				if err != nil {
					return err
				}
				countries, err := l.Countries()
				if err != nil {
					return err
				}

				rep := records.Check(records.Data{
					Results:      results,
					Competitions: comps,
					Countries:    countries,
				}, records.Options{
					Since: cfg.SinceTime(),
					Log:   log,
				})

				var b strings.Builder
				if err := rep.Render(&b); err != nil {
					return err
				}
				path, err := reporter().RenderText(records.Rule, b.String())
				if err != nil {
					return err
				}
				ev := log.Info().Str("rule", records.Rule).
					Int("clear", len(rep.Clear)).
					Int("possible", len(rep.Possible))
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
	cmd.Flags().StringVar(&cfg.Since, "since", cfg.Since, "only report possible errors ending on or after this date (YYYY-MM-DD)")
	addWatchFlags(cmd)
	return cmd
}
