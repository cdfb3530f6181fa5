package staffing

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// Assign fills scrambler, runner and judge slots for every main-event
// group in schedule order, then collects leftover availability for the
// side events. Running out of scramblers or runners is fatal; running out
// of judges pads with empty slots and warns.
//
// Candidates are ranked by a chain of stable sorts over a shuffled base
// order: members with prior commitments in a parallel side event rank
// last, fully free members first, then the least loaded overall and the
// least loaded in the current stretch. A member kept from the previous
// group is preferred as long as they are fully free and their consecutive
// stretch stays under the cap.
func (p *Plan) Assign() error {
	rng := p.Config.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	currWL := map[string]time.Duration{}
	var lastG *Group

	for _, g := range p.Groups {
		if !p.Config.isMain(g.Event) {
			continue
		}
		if lastG != nil && g.Day != lastG.Day {
			lastG = nil
			currWL = map[string]time.Duration{}
		}

		par := p.parallelSide(g)
		heats := len(g.Heats)
		dur := g.Duration()

		// Scramblers.
		cands := p.candidates(g, func(s *Member) bool {
			return contains(s.Scr2, g.Event) || contains(s.Scr1, g.Event)
		})
		need := heats * p.Config.ScramblersPerHeat
		if len(cands) < need {
			return fmt.Errorf("not enough staff for scrambling %s round %d group %d", g.Event, g.Round, g.Num)
		}
		p.rank(cands, g, par, currWL, rankScrambler, rng)
		var carry []*Member
		if lastG != nil {
			carry = p.Scramblers[lastG]
		}
		p.Scramblers[g] = p.fill(g, par, RoleScrambler, need, cands, carry, currWL, dur, func(s *Member) bool {
			return contains(s.Scr2, g.Event)
		})

		// Runners.
		cands = p.candidates(g, func(s *Member) bool { return s.Run > 0 })
		need = heats * p.Config.RunnersPerHeat
		if len(cands) < need {
			return fmt.Errorf("not enough staff for running %s round %d group %d", g.Event, g.Round, g.Num)
		}
		p.rank(cands, g, par, currWL, rankRunner, rng)
		carry = nil
		if lastG != nil {
			carry = p.Runners[lastG]
		}
		p.Runners[g] = p.fill(g, par, RoleRunner, need, cands, carry, currWL, dur, nil)

		// Judges.
		cands = p.candidates(g, nil)
		need = p.Config.JudgesPerHeats[heats]
		if len(cands) < need {
			p.Warnings = append(p.Warnings, fmt.Sprintf(
				"not enough staff for judging %s round %d group %d: %d available, %d needed",
				g.Event, g.Round, g.Num, len(cands), need))
		}
		p.rank(cands, g, par, currWL, rankJudge, rng)
		carry = nil
		if lastG != nil && !hasEmptySlot(p.Judges[lastG]) {
			carry = p.Judges[lastG]
		}
		p.Judges[g] = p.fill(g, par, RoleJudge, need, cands, carry, currWL, dur, nil)

		// The consecutive stretch ends for everyone who sat this one out.
		assigned := map[string]bool{}
		for _, lists := range [][]*Member{p.Scramblers[g], p.Runners[g], p.Judges[g]} {
			for _, s := range lists {
				if s != nil {
					assigned[s.Name] = true
				}
			}
		}
		for _, s := range p.Staff {
			if !assigned[s.Name] {
				currWL[s.Name] = 0
			}
		}

		lastG = g
	}

	// Side events get whoever is left; all but FMC judge.
	for _, g := range p.Groups {
		if !p.Config.isSide(g.Event) {
			continue
		}
		avail := p.candidates(g, nil)
		p.AvailSide[g] = avail
		if g.Event == "333fm" {
			continue
		}
		for _, s := range avail {
			p.Schedules[s.Name] = append(p.Schedules[s.Name], Assignment{RoleJudge, g})
		}
	}

	for name := range p.Schedules {
		entries := p.Schedules[name]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Group.Start.Before(entries[j].Group.Start)
		})
	}
	return nil
}

// candidates returns members with any availability for g, optionally
// filtered by a skill predicate.
func (p *Plan) candidates(g *Group, skill func(*Member) bool) []*Member {
	var out []*Member
	for _, s := range p.Staff {
		if p.avail[s.Name][g] > 0 && (skill == nil || skill(s)) {
			out = append(out, s)
		}
	}
	return out
}

// parallelSide returns the first side-event group overlapping g, if any.
func (p *Plan) parallelSide(g *Group) *Group {
	for _, h := range p.Groups {
		if p.Config.isSide(h.Event) && overlaps(g, h) {
			return h
		}
	}
	return nil
}

type rankRole int

const (
	rankScrambler rankRole = iota
	rankRunner
	rankJudge
)

// rank orders candidates in place. Later sorts take precedence; all are
// stable so earlier keys break ties.
func (p *Plan) rank(cands []*Member, g, par *Group, currWL map[string]time.Duration, role rankRole, rng *rand.Rand) {
	rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })

	sort.SliceStable(cands, func(i, j int) bool {
		return currWL[cands[i].Name] < currWL[cands[j].Name]
	})
	if role == rankRunner {
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].Run > cands[j].Run })
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return p.Workloads[cands[i].Name] < p.Workloads[cands[j].Name]
	})
	if role == rankScrambler {
		sort.SliceStable(cands, func(i, j int) bool {
			return boolToInt(contains(cands[i].Scr2, g.Event)) > boolToInt(contains(cands[j].Scr2, g.Event))
		})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return p.avail[cands[i].Name][g] > p.avail[cands[j].Name][g]
	})
	if par != nil {
		sort.SliceStable(cands, func(i, j int) bool {
			return p.avail[cands[i].Name][par] < p.avail[cands[j].Name][par]
		})
	}
}

// fill assigns need members for one role, preferring the previous group's
// assignee for each slot. Judges may run out of candidates; the remaining
// slots stay nil.
func (p *Plan) fill(g, par *Group, role Role, need int, cands []*Member, carry []*Member,
	currWL map[string]time.Duration, dur time.Duration, carryOK func(*Member) bool) []*Member {

	var chosen []*Member
	for i := 0; i < need; i++ {
		if len(cands) == 0 {
			// Only judges get here; scramblers and runners were counted
			// before filling.
			for ; i < need; i++ {
				chosen = append(chosen, nil)
			}
			break
		}

		var pick *Member
		if len(carry) > i && carry[i] != nil {
			prev := carry[i]
			if p.avail[prev.Name][g] == availFree &&
				currWL[prev.Name]+dur <= p.Config.MaxConsecutive &&
				(carryOK == nil || carryOK(prev)) {
				pick = prev
			}
		}
		if pick == nil {
			pick = cands[0]
		}

		chosen = append(chosen, pick)
		p.Schedules[pick.Name] = append(p.Schedules[pick.Name], Assignment{role, g})
		p.avail[pick.Name][g] = availBusy
		cands = remove(cands, pick)
		p.Workloads[pick.Name] += dur
		currWL[pick.Name] += dur
		if par != nil {
			p.avail[pick.Name][par] = availBusy
		}
	}
	return chosen
}

func hasEmptySlot(list []*Member) bool {
	for _, s := range list {
		if s == nil {
			return true
		}
	}
	return false
}

func remove(list []*Member, s *Member) []*Member {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
