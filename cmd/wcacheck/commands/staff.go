package commands

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cubetools/wcacheck/internal/staffing"
)

func staffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Assign scramblers, runners and judges from a schedule and staff list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.SchedulePath == "" || cfg.StaffPath == "" {
				return fmt.Errorf("staff needs --schedule and --staff files")
			}

			sessions, err := staffing.ReadScheduleFile(cfg.SchedulePath)
			if err != nil {
				return fmt.Errorf("read schedule: %w", err)
			}
			staff, err := staffing.ReadStaffFile(cfg.StaffPath)
			if err != nil {
				return fmt.Errorf("read staff: %w", err)
			}

			var grouping map[string]map[string]int
			var groupingEvents []string
			if cfg.GroupingPath != "" {
				grouping, groupingEvents, err = staffing.ReadGroupingFile(cfg.GroupingPath)
				if err != nil {
					return fmt.Errorf("read grouping: %w", err)
				}
			}

			scfg := staffing.DefaultConfig()
			if cfg.Seed != 0 {
				scfg.Rand = rand.New(rand.NewSource(cfg.Seed))
			}

			plan := staffing.NewPlan(scfg, sessions, staff, grouping, groupingEvents)
			if errs := plan.Validate(); len(errs) > 0 {
				return fmt.Errorf("input errors:\n%s", strings.Join(errs, "\n"))
			}
			if err := plan.WriteAvailabilityFiles(cfg.StaffOutDir); err != nil {
				return err
			}

			if err := plan.Assign(); err != nil {
				return err
			}
			for _, w := range plan.Warnings {
				log.Warn().Msg(w)
			}
			if conflicts := plan.CheckConsistency(); len(conflicts) > 0 {
				for _, c := range conflicts {
					log.Error().Msg(c)
				}
				return fmt.Errorf("assignment produced %d overlapping schedule entries", len(conflicts))
			}

			if err := plan.WriteAssignmentFiles(cfg.StaffOutDir); err != nil {
				return err
			}
			log.Info().Str("dir", cfg.StaffOutDir).Int("staff", len(staff)).Msg("assignment written")
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.SchedulePath, "schedule", cfg.SchedulePath, "schedule CSV (day,start,end,event,round,groups,areas)")
	cmd.Flags().StringVar(&cfg.StaffPath, "staff", cfg.StaffPath, "staff list (semicolon separated)")
	cmd.Flags().StringVar(&cfg.GroupingPath, "grouping", cfg.GroupingPath, "group assignments per staff per event (optional)")
	cmd.Flags().StringVar(&cfg.StaffOutDir, "out", cfg.StaffOutDir, "directory for the assignment files")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "fix the assignment shuffle (0 uses the clock)")
	return cmd
}
