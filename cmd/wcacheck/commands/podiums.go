package commands

import (
	"github.com/spf13/cobra"

	"github.com/cubetools/wcacheck/internal/stats"
)

func podiumsCmd() *cobra.Command {
	var trios bool

	cmd := &cobra.Command{
		Use:   "podiums",
		Short: "Rank the people who shared the most podiums",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openExport()
			if err != nil {
				return err
			}
			defer l.Close()

			results, err := l.Results()
			if err != nil {
				return err
			}
			persons, err := l.Persons()
			if err != nil {
				return err
			}

			podiums := stats.Podiums(results)
			names := stats.Names(persons)

			rows := stats.Buddies(podiums)
			rule, title := "podium-buddies", "Podium Buddies"
			if trios {
				rows = stats.Trios(podiums)
				rule, title = "podium-trios", "Podium Trios"
			}

			var out string
			if cfg.Format == "tsv" {
				out = stats.RenderTSV(rows, names, cfg.TopN)
			} else {
				out = stats.RenderBB(rows, names, cfg.TopN, title) + "\n"
			}

			path, err := reporter().RenderText(rule, out)
			if err != nil {
				return err
			}
			ev := log.Info().Str("stat", rule).
				Int("podiums", len(podiums)).
				Int("combinations", len(rows))
			if path != "" {
				ev = ev.Str("report", path)
			}
			ev.Msg("statistics complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&trios, "trios", false, "count shared podiums per triple instead of per pair")
	cmd.Flags().IntVar(&cfg.TopN, "top", cfg.TopN, "how many rows to print")
	cmd.Flags().StringVar(&cfg.Format, "format", cfg.Format, "output format: bb or tsv")
	return cmd
}
