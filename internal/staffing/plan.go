package staffing

import (
	"fmt"
	"time"
)

// Availability states per member and group.
const (
	availBusy   = 0
	availRather = 1 // free, but would rather not (practice slot coming up)
	availFree   = 2
)

// Plan holds the derived availability and, after Assign, the role
// assignments and workloads.
type Plan struct {
	Config   Config
	Groups   []*Group
	Staff    []*Member
	Grouping map[string]map[string]int

	avail map[string]map[*Group]int

	Schedules  map[string][]Assignment
	Scramblers map[*Group][]*Member
	Runners    map[*Group][]*Member
	// Judges entries can be nil when there was nobody left to assign.
	Judges    map[*Group][]*Member
	Workloads map[string]time.Duration
	AvailSide map[*Group][]*Member

	// Warnings collects non-fatal findings: understaffed judge slots and
	// members missing from the grouping.
	Warnings []string
}

// NewPlan derives groups and the initial availability matrix from the
// parsed inputs. Members absent from the grouping are treated as not
// competing and warned about.
func NewPlan(cfg Config, sessions []Session, staff []*Member, grouping map[string]map[string]int, groupingEvents []string) *Plan {
	if grouping == nil {
		grouping = map[string]map[string]int{}
	}
	p := &Plan{
		Config:     cfg,
		Groups:     SplitGroups(sessions),
		Staff:      staff,
		Grouping:   grouping,
		avail:      map[string]map[*Group]int{},
		Schedules:  map[string][]Assignment{},
		Scramblers: map[*Group][]*Member{},
		Runners:    map[*Group][]*Member{},
		Judges:     map[*Group][]*Member{},
		Workloads:  map[string]time.Duration{},
		AvailSide:  map[*Group][]*Member{},
	}

	for _, s := range staff {
		if _, ok := p.Grouping[s.Name]; !ok {
			p.Warnings = append(p.Warnings, fmt.Sprintf("%s is not included in the grouping", s.Name))
			empty := make(map[string]int, len(groupingEvents))
			for _, ev := range groupingEvents {
				empty[ev] = 0
			}
			p.Grouping[s.Name] = empty
		}
	}

	p.deriveAvailability()
	p.resolveParallelConflicts()
	return p
}

// deriveAvailability marks each member busy for days they are absent, for
// round-1 groups they compete in and for rounds they will likely proceed
// to, and soft-blocks the slot right before a practice event.
func (p *Plan) deriveAvailability() {
	for _, s := range p.Staff {
		byGroup := make(map[*Group]int, len(p.Groups))
		for _, g := range p.Groups {
			byGroup[g] = availFree
		}
		p.avail[s.Name] = byGroup
	}

	for _, s := range p.Staff {
		for _, g := range p.Groups {
			if !s.Days[g.Day] {
				p.avail[s.Name][g] = availBusy
			}
			if g.Round == 1 && containsInt(g.Heats, p.Grouping[s.Name][g.Event]) {
				p.avail[s.Name][g] = availBusy
				p.Schedules[s.Name] = append(p.Schedules[s.Name], Assignment{RoleCompetitor, g})
				if contains(s.Prac, g.Event) {
					p.softBlockBefore(s, g)
				}
			}
			if g.Round > 1 && contains(s.Proc, g.Event) {
				p.avail[s.Name][g] = availBusy
				p.Schedules[s.Name] = append(p.Schedules[s.Name], Assignment{RoleProceed, g})
				if contains(s.Prac, g.Event) {
					p.softBlockBefore(s, g)
				}
			}
		}
	}
}

// softBlockBefore downgrades fully free slots that end within 15 minutes
// of the competing group's start, so the member can warm up.
func (p *Plan) softBlockBefore(s *Member, g *Group) {
	for _, h := range p.Groups {
		if p.avail[s.Name][h] == availFree && h.Start.Before(g.Start) && h.End.After(g.Start.Add(-15*time.Minute)) {
			p.avail[s.Name][h] = availRather
		}
	}
}

// resolveParallelConflicts removes availability for side-event slots that
// run parallel to a main-event slot the member is busy in, and vice
// versa. An intermediate marker avoids chain reactions.
func (p *Plan) resolveParallelConflicts() {
	const pending = -1
	for _, s := range p.Staff {
		byGroup := p.avail[s.Name]
		for _, g := range p.Groups {
			if !p.Config.isMain(g.Event) {
				continue
			}
			for _, h := range p.Groups {
				if !p.Config.isSide(h.Event) || !overlaps(g, h) {
					continue
				}
				if byGroup[g] == availBusy && byGroup[h] > 0 {
					byGroup[h] = pending
				}
				if byGroup[g] > 0 && byGroup[h] == availBusy {
					byGroup[g] = pending
				}
			}
		}
		for _, g := range p.Groups {
			if byGroup[g] == pending {
				byGroup[g] = availBusy
			}
		}
	}
}

// overlaps reports whether two groups share any time, with a minute of
// slack on both ends.
func overlaps(g, h *Group) bool {
	slack := time.Minute
	return g.Start.Add(-slack).Before(h.End.Add(slack)) && h.Start.Add(-slack).Before(g.End.Add(slack))
}

// Validate runs the input error checks and returns every problem found.
func (p *Plan) Validate() []string {
	var errs []string
	for _, s := range p.Staff {
		for _, ev := range s.Scr1 {
			if !p.Config.knownEvent(ev) {
				errs = append(errs, fmt.Sprintf("%s: unknown scr1 event %s", s.Name, ev))
			}
		}
		for _, ev := range s.Scr2 {
			if !p.Config.knownEvent(ev) {
				errs = append(errs, fmt.Sprintf("%s: unknown scr2 event %s", s.Name, ev))
			}
			if !contains(s.Scr1, ev) {
				errs = append(errs, fmt.Sprintf("%s: scr2 event %s not in scr1", s.Name, ev))
			}
		}
		for _, ev := range s.Prac {
			if !p.Config.knownEvent(ev) {
				errs = append(errs, fmt.Sprintf("%s: unknown prac event %s", s.Name, ev))
			}
		}
		for _, ev := range s.Proc {
			if !p.Config.knownEvent(ev) {
				errs = append(errs, fmt.Sprintf("%s: unknown proc event %s", s.Name, ev))
			}
		}
		if s.Run < 0 || s.Run > 2 {
			errs = append(errs, fmt.Sprintf("%s: false running value %d", s.Name, s.Run))
		}
		for ev, n := range p.Grouping[s.Name] {
			if n < 0 || n >= 30 {
				errs = append(errs, fmt.Sprintf("%s: invalid group %d for %s", s.Name, n, ev))
			}
		}
	}
	for _, g := range p.Groups {
		if !p.Config.knownEvent(g.Event) {
			errs = append(errs, fmt.Sprintf("schedule: unknown event %s", g.Event))
		}
		if p.Config.isMain(g.Event) {
			if _, ok := p.Config.JudgesPerHeats[len(g.Heats)]; !ok {
				errs = append(errs, fmt.Sprintf("schedule: no judge count configured for %d heats (%s round %d group %d)",
					len(g.Heats), g.Event, g.Round, g.Num))
			}
		}
	}
	return errs
}

// Availability returns how free a member is for a group.
func (p *Plan) Availability(name string, g *Group) int {
	return p.avail[name][g]
}

// AvailableCount counts members with any availability for a group.
func (p *Plan) AvailableCount(g *Group) int {
	n := 0
	for _, s := range p.Staff {
		if p.avail[s.Name][g] > 0 {
			n++
		}
	}
	return n
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}
