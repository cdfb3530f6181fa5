// Package staffing builds staff assignments for a competition: scramblers,
// runners and judges per group of each main event, balanced by workload
// and constrained by each helper's availability, competing schedule and
// scrambling skills.
package staffing

import (
	"math/rand"
	"time"
)

// Session is one scheduled round of one event.
type Session struct {
	Index  int
	Day    string // YYYY-MM-DD
	Start  time.Time
	End    time.Time
	Event  string
	Round  int
	Groups int
	Areas  int
}

// Group is one timed group of a session, with its heat numbers.
type Group struct {
	Event string
	Round int
	Num   int
	Day   string
	Start time.Time
	End   time.Time
	Heats []int
}

// Duration returns the length of the group's time slot.
func (g *Group) Duration() time.Duration { return g.End.Sub(g.Start) }

// Timeframe renders the group's slot for report output.
func (g *Group) Timeframe() string {
	return g.Day + " " + g.Start.Format("15:04") + " - " + g.End.Format("15:04")
}

// Member is one staff helper with their constraints.
type Member struct {
	Name string
	// Days lists the dates the member is present.
	Days map[string]bool
	// Run is the runner skill: 0 cannot run, 2 preferred runner.
	Run int
	// Scr1 lists events the member can scramble, Scr2 the subset they
	// scramble well.
	Scr1, Scr2 []string
	// Prac lists events the member wants to practice for right before
	// competing, Proc events where they will likely proceed past round 1.
	Prac, Proc []string
}

// Role is one kind of schedule entry.
type Role byte

const (
	RoleCompetitor Role = 'c'
	RoleProceed    Role = 'p'
	RoleScrambler  Role = 's'
	RoleRunner     Role = 'r'
	RoleJudge      Role = 'j'
)

// Label returns the human-readable role name.
func (r Role) Label() string {
	switch r {
	case RoleCompetitor:
		return "Competitor"
	case RoleProceed:
		return "Possibly proceeded competitor"
	case RoleScrambler:
		return "Scrambler"
	case RoleRunner:
		return "Runner"
	case RoleJudge:
		return "Judge"
	}
	return string(r)
}

// Assignment is one entry of a member's personal schedule.
type Assignment struct {
	Role  Role
	Group *Group
}

// Config carries the event split and staffing constants.
type Config struct {
	// MainEvents are staffed group by group; SideEvents just collect the
	// staff still available in parallel.
	MainEvents []string
	SideEvents []string

	ScramblersPerHeat int
	RunnersPerHeat    int
	// JudgesPerHeats maps a group's heat count to the judges it needs.
	JudgesPerHeats map[int]int

	// MaxConsecutive caps how long a member keeps the same role across
	// back-to-back groups before rotating out.
	MaxConsecutive time.Duration

	// Rand shuffles candidate lists before the deterministic sort keys
	// apply so equally ranked members get picked evenly. Tests inject a
	// seeded source.
	Rand *rand.Rand
}

// DefaultConfig returns the staffing constants used at the event this
// tool was built for.
func DefaultConfig() Config {
	return Config{
		MainEvents: []string{"333", "444", "555", "222", "333bf", "333oh", "333ft",
			"minx", "pyram", "sq1", "clock", "skewb", "666", "777"},
		SideEvents:        []string{"333fm", "444bf", "555bf", "333mbf"},
		ScramblersPerHeat: 3,
		RunnersPerHeat:    3,
		JudgesPerHeats:    map[int]int{1: 10, 2: 20, 3: 28},
		MaxConsecutive:    time.Hour,
	}
}

func (c Config) isMain(event string) bool { return contains(c.MainEvents, event) }

func (c Config) isSide(event string) bool { return contains(c.SideEvents, event) }

func (c Config) knownEvent(event string) bool { return c.isMain(event) || c.isSide(event) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// SplitGroups cuts each session's time window into its groups, numbering
// heats consecutively across the groups of one session.
func SplitGroups(sessions []Session) []*Group {
	var out []*Group
	for _, s := range sessions {
		span := s.End.Sub(s.Start)
		for i := 0; i < s.Groups; i++ {
			heats := make([]int, s.Areas)
			for j := range heats {
				heats[j] = i*s.Areas + j + 1
			}
			out = append(out, &Group{
				Event: s.Event,
				Round: s.Round,
				Num:   i + 1,
				Day:   s.Day,
				Start: s.Start.Add(time.Duration(i) * span / time.Duration(s.Groups)),
				End:   s.Start.Add(time.Duration(i+1) * span / time.Duration(s.Groups)),
				Heats: heats,
			})
		}
	}
	return out
}
