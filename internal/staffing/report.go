package staffing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// CheckConsistency verifies that no member's schedule contains
// overlapping entries and returns a description of each conflict.
func (p *Plan) CheckConsistency() []string {
	var out []string
	for _, s := range p.Staff {
		sched := p.Schedules[s.Name]
		for i := 1; i < len(sched); i++ {
			if sched[i].Group.Start.Before(sched[i-1].Group.End) {
				out = append(out, fmt.Sprintf("%s: %s %s overlaps %s %s",
					s.Name,
					sched[i-1].Role.Label(), sched[i-1].Group.Timeframe(),
					sched[i].Role.Label(), sched[i].Group.Timeframe()))
			}
		}
	}
	return out
}

func groupCells(g *Group) []string {
	return []string{g.Event, "Round " + strconv.Itoa(g.Round), "Group " + strconv.Itoa(g.Num), g.Timeframe()}
}

// WriteRole writes one role's assignments for all main-event groups as
// CSV: group columns followed by one column per assigned member.
func (p *Plan) WriteRole(w io.Writer, role Role) error {
	cw := csv.NewWriter(w)
	header := []string{"Event", "Round", "Group", "Timeframe"}
	count := 0
	byGroup := p.roleLists(role)
	for _, list := range byGroup {
		if len(list) > count {
			count = len(list)
		}
	}
	for i := 1; i <= count; i++ {
		header = append(header, role.Label()+" "+strconv.Itoa(i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, g := range p.Groups {
		if !p.Config.isMain(g.Event) {
			continue
		}
		row := groupCells(g)
		for _, s := range byGroup[g] {
			if s == nil {
				row = append(row, "NA")
			} else {
				row = append(row, s.Name)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (p *Plan) roleLists(role Role) map[*Group][]*Member {
	switch role {
	case RoleScrambler:
		return p.Scramblers
	case RoleRunner:
		return p.Runners
	default:
		return p.Judges
	}
}

// WriteAvailability writes how many members have any availability per
// group. With sideOnly it covers only side events, mirroring the
// comparison output taken before assignment.
func (p *Plan) WriteAvailability(w io.Writer, sideOnly bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Event", "Round", "Group", "Timeframe", "Amount of staff members"}); err != nil {
		return err
	}
	for _, g := range p.Groups {
		if sideOnly && !p.Config.isSide(g.Event) {
			continue
		}
		if err := cw.Write(append(groupCells(g), strconv.Itoa(p.AvailableCount(g)))); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSideStaff lists the members left available for each side event.
func (p *Plan) WriteSideStaff(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Event", "Round", "Group", "Timeframe", "Available staff members"}); err != nil {
		return err
	}
	for _, g := range p.Groups {
		if !p.Config.isSide(g.Event) {
			continue
		}
		row := groupCells(g)
		for _, s := range p.AvailSide[g] {
			row = append(row, s.Name)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteWorkloads writes the total assigned time per member.
func (p *Plan) WriteWorkloads(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Workload of the staff members"); err != nil {
		return err
	}
	for _, s := range p.Staff {
		if _, err := fmt.Fprintf(w, "%s: %s\n", s.Name, p.Workloads[s.Name]); err != nil {
			return err
		}
	}
	return nil
}

// WriteSchedules writes each member's personal schedule. Likely-proceed
// placeholders are omitted; they only exist to block availability.
func (p *Plan) WriteSchedules(w io.Writer) error {
	for _, s := range p.Staff {
		if _, err := fmt.Fprintf(w, "%s\n\n", s.Name); err != nil {
			return err
		}
		for _, a := range p.Schedules[s.Name] {
			if a.Role == RoleProceed {
				continue
			}
			g := a.Group
			if _, err := fmt.Fprintf(w, "%s,%s,Round %d,Group %d,%s\n",
				a.Role.Label(), g.Event, g.Round, g.Num, g.Timeframe()); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

type namedOutput struct {
	name  string
	write func(io.Writer) error
}

// WriteAvailabilityFiles writes the pre-assignment availability outputs.
func (p *Plan) WriteAvailabilityFiles(dir string) error {
	return p.writeFiles(dir, []namedOutput{
		{"avail_side.csv", func(w io.Writer) error { return p.WriteAvailability(w, true) }},
		{"initial_availability.csv", func(w io.Writer) error { return p.WriteAvailability(w, false) }},
	})
}

// WriteAssignmentFiles writes every post-assignment output into dir.
func (p *Plan) WriteAssignmentFiles(dir string) error {
	return p.writeFiles(dir, []namedOutput{
		{"scramblers_main.csv", func(w io.Writer) error { return p.WriteRole(w, RoleScrambler) }},
		{"runners_main.csv", func(w io.Writer) error { return p.WriteRole(w, RoleRunner) }},
		{"judges_main.csv", func(w io.Writer) error { return p.WriteRole(w, RoleJudge) }},
		{"staff_side.csv", p.WriteSideStaff},
		{"staff_workloads.csv", p.WriteWorkloads},
		{"staff_schedules.csv", p.WriteSchedules},
	})
}

func (p *Plan) writeFiles(dir string, files []namedOutput) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, f := range files {
		out, err := os.Create(filepath.Join(dir, f.name))
		if err != nil {
			return err
		}
		if err := f.write(out); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
	}
	return nil
}
