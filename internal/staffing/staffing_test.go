package staffing

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day1 = "2023-07-01"

func at(day string, hhmm string) time.Time {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	h := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	m := int(hhmm[2]-'0')*10 + int(hhmm[3]-'0')
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, time.UTC)
}

func session(day, start, end, event string, round, groups, areas int) Session {
	return Session{
		Day:    day,
		Start:  at(day, start),
		End:    at(day, end),
		Event:  event,
		Round:  round,
		Groups: groups,
		Areas:  areas,
	}
}

func member(name string, run int, scr1, scr2 []string) *Member {
	return &Member{
		Name: name,
		Days: map[string]bool{day1: true},
		Run:  run,
		Scr1: scr1,
		Scr2: scr2,
	}
}

func testConfig() Config {
	return Config{
		MainEvents:        []string{"333", "222"},
		SideEvents:        []string{"333fm", "444bf"},
		ScramblersPerHeat: 1,
		RunnersPerHeat:    1,
		JudgesPerHeats:    map[int]int{1: 2, 2: 4},
		MaxConsecutive:    time.Hour,
		Rand:              rand.New(rand.NewSource(1)),
	}
}

func TestReadSchedule(t *testing.T) {
	in := "day,start,end,event,round,groups,areas\n" +
		"2023-07-01,0900,1030,333,1,3,2\n"
	sessions, err := ReadSchedule(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, "333", s.Event)
	assert.Equal(t, 1, s.Round)
	assert.Equal(t, 3, s.Groups)
	assert.Equal(t, at(day1, "0900"), s.Start)
	assert.Equal(t, at(day1, "1030"), s.End)
}

func TestReadScheduleBadTime(t *testing.T) {
	in := "day,start,end,event,round,groups,areas\n" +
		"2023-07-01,9am,1030,333,1,3,2\n"
	_, err := ReadSchedule(strings.NewReader(in))
	assert.Error(t, err)
}

func TestReadStaff(t *testing.T) {
	in := "name;days;run;scr1;scr2;prac;proc\n" +
		"Alice;2023-07-01,2023-07-02;2;333,444;333;222;333\n"
	staff, err := ReadStaff(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, staff, 1)
	a := staff[0]
	assert.Equal(t, "Alice", a.Name)
	assert.True(t, a.Days["2023-07-02"])
	assert.Equal(t, 2, a.Run)
	assert.Equal(t, []string{"333", "444"}, a.Scr1)
	assert.Equal(t, []string{"333"}, a.Scr2)
	assert.Equal(t, []string{"222"}, a.Prac)
	assert.Equal(t, []string{"333"}, a.Proc)
}

func TestReadGrouping(t *testing.T) {
	in := "name;333;222\nAlice;2;0\nBob;1;1\n"
	grouping, events, err := ReadGrouping(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"333", "222"}, events)
	assert.Equal(t, 2, grouping["Alice"]["333"])
	assert.Equal(t, 0, grouping["Alice"]["222"])
	assert.Equal(t, 1, grouping["Bob"]["222"])
}

func TestSplitGroups(t *testing.T) {
	groups := SplitGroups([]Session{session(day1, "0900", "1030", "333", 1, 3, 2)})
	require.Len(t, groups, 3)
	assert.Equal(t, at(day1, "0900"), groups[0].Start)
	assert.Equal(t, at(day1, "0930"), groups[0].End)
	assert.Equal(t, at(day1, "1000"), groups[2].Start)
	assert.Equal(t, at(day1, "1030"), groups[2].End)
	assert.Equal(t, []int{1, 2}, groups[0].Heats)
	assert.Equal(t, []int{5, 6}, groups[2].Heats)
}

func TestAvailabilityDerivation(t *testing.T) {
	sessions := []Session{
		session(day1, "0900", "1000", "222", 1, 1, 1),
		session(day1, "1000", "1100", "333", 1, 1, 1),
		session("2023-07-02", "0900", "1000", "333", 2, 1, 1),
	}
	competitor := member("Competitor", 0, nil, nil)
	competitor.Prac = []string{"333"}
	competitor.Proc = []string{"333"}
	absent := member("Absent", 0, nil, nil)
	free := member("Free", 0, nil, nil)
	free.Days["2023-07-02"] = true

	grouping := map[string]map[string]int{
		"Competitor": {"333": 1, "222": 0},
		"Absent":     {"333": 0, "222": 0},
		"Free":       {"333": 0, "222": 0},
	}
	p := NewPlan(testConfig(), sessions, []*Member{competitor, absent, free}, grouping, []string{"333", "222"})
	require.Len(t, p.Groups, 3)
	g222, g333, g333r2 := p.Groups[0], p.Groups[1], p.Groups[2]

	// Competing in one's assigned round-1 group blocks it; the slot
	// before a practice event is soft-blocked.
	assert.Equal(t, availBusy, p.Availability("Competitor", g333))
	assert.Equal(t, availRather, p.Availability("Competitor", g222))

	// Absent the whole second day, proceeding blocks round two.
	assert.Equal(t, availBusy, p.Availability("Absent", g333r2))
	assert.Equal(t, availBusy, p.Availability("Competitor", g333r2))

	assert.Equal(t, availFree, p.Availability("Free", g222))
	assert.Equal(t, availFree, p.Availability("Free", g333r2))

	// The competitor's schedule holds the competing entry.
	require.NotEmpty(t, p.Schedules["Competitor"])
}

func TestMissingFromGroupingWarns(t *testing.T) {
	sessions := []Session{session(day1, "0900", "1000", "333", 1, 1, 1)}
	p := NewPlan(testConfig(), sessions, []*Member{member("Ghost", 0, nil, nil)},
		map[string]map[string]int{}, []string{"333"})
	require.Len(t, p.Warnings, 1)
	assert.Contains(t, p.Warnings[0], "Ghost")
	assert.Equal(t, availFree, p.Availability("Ghost", p.Groups[0]))
}

func TestNewPlanWithoutGrouping(t *testing.T) {
	// No grouping file at all: everyone gets an empty grouping entry,
	// a warning each, and stays fully available.
	sessions := []Session{session(day1, "0900", "1000", "333", 1, 1, 1)}
	p := NewPlan(testConfig(), sessions, []*Member{member("Alice", 0, nil, nil)}, nil, nil)
	require.Len(t, p.Warnings, 1)
	assert.Contains(t, p.Warnings[0], "Alice")
	assert.Equal(t, availFree, p.Availability("Alice", p.Groups[0]))
}

func TestParallelConflicts(t *testing.T) {
	// A side event overlapping a main-event slot the member competes in
	// must not be offered to them.
	sessions := []Session{
		session(day1, "0900", "1000", "333", 1, 1, 1),
		session(day1, "0900", "1000", "333fm", 1, 1, 1),
	}
	m := member("Competitor", 0, nil, nil)
	grouping := map[string]map[string]int{"Competitor": {"333": 1, "333fm": 0}}
	p := NewPlan(testConfig(), sessions, []*Member{m}, grouping, []string{"333", "333fm"})
	gMain, gSide := p.Groups[0], p.Groups[1]
	assert.Equal(t, availBusy, p.Availability("Competitor", gMain))
	assert.Equal(t, availBusy, p.Availability("Competitor", gSide))
}

func TestValidate(t *testing.T) {
	sessions := []Session{session(day1, "0900", "1000", "333", 1, 1, 1)}
	bad := member("Bad", 7, []string{"999"}, []string{"333"})
	grouping := map[string]map[string]int{"Bad": {"333": 31}}
	p := NewPlan(testConfig(), sessions, []*Member{bad}, grouping, []string{"333"})
	errs := p.Validate()
	joined := strings.Join(errs, "\n")
	assert.Contains(t, joined, "unknown scr1 event 999")
	assert.Contains(t, joined, "scr2 event 333 not in scr1")
	assert.Contains(t, joined, "false running value 7")
	assert.Contains(t, joined, "invalid group 31")
}

func TestValidateUnconfiguredHeatCount(t *testing.T) {
	// A main-event group running more heats than JudgesPerHeats covers
	// would otherwise be assigned zero judges without notice.
	sessions := []Session{session(day1, "0900", "1000", "333", 1, 1, 4)}
	staff := []*Member{member("Alice", 0, nil, nil)}
	p := NewPlan(testConfig(), sessions, staff, emptyGrouping(staff, "333"), []string{"333"})
	errs := p.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "no judge count configured for 4 heats")
}

func testStaff() []*Member {
	return []*Member{
		member("Scr", 0, []string{"333"}, []string{"333"}),
		member("Run", 1, nil, nil),
		member("JudgeA", 0, nil, nil),
		member("JudgeB", 0, nil, nil),
	}
}

func emptyGrouping(staff []*Member, events ...string) map[string]map[string]int {
	g := map[string]map[string]int{}
	for _, s := range staff {
		byEvent := map[string]int{}
		for _, ev := range events {
			byEvent[ev] = 0
		}
		g[s.Name] = byEvent
	}
	return g
}

func TestAssign(t *testing.T) {
	sessions := []Session{session(day1, "0900", "1000", "333", 1, 1, 1)}
	staff := testStaff()
	p := NewPlan(testConfig(), sessions, staff, emptyGrouping(staff, "333"), []string{"333"})
	require.NoError(t, p.Assign())

	g := p.Groups[0]
	require.Len(t, p.Scramblers[g], 1)
	assert.Equal(t, "Scr", p.Scramblers[g][0].Name)
	require.Len(t, p.Runners[g], 1)
	assert.Equal(t, "Run", p.Runners[g][0].Name)
	require.Len(t, p.Judges[g], 2)
	for _, j := range p.Judges[g] {
		require.NotNil(t, j)
	}

	assert.Empty(t, p.CheckConsistency())
	assert.Equal(t, time.Hour, p.Workloads["Scr"])
}

func TestAssignNotEnoughScramblers(t *testing.T) {
	sessions := []Session{session(day1, "0900", "1000", "333", 1, 1, 1)}
	staff := []*Member{member("OnlyJudge", 0, nil, nil)}
	p := NewPlan(testConfig(), sessions, staff, emptyGrouping(staff, "333"), []string{"333"})
	assert.Error(t, p.Assign())
}

func TestAssignNotEnoughJudgesWarns(t *testing.T) {
	sessions := []Session{session(day1, "0900", "1000", "333", 1, 1, 1)}
	staff := []*Member{
		member("Scr", 0, []string{"333"}, nil),
		member("Run", 1, nil, nil),
		member("Judge", 0, nil, nil),
	}
	p := NewPlan(testConfig(), sessions, staff, emptyGrouping(staff, "333"), []string{"333"})
	require.NoError(t, p.Assign())

	g := p.Groups[0]
	require.Len(t, p.Judges[g], 2)
	assert.Nil(t, p.Judges[g][1])
	assert.NotEmpty(t, p.Warnings)
}

func TestAssignSideEvent(t *testing.T) {
	sessions := []Session{
		session(day1, "0900", "1000", "333", 1, 1, 1),
		session(day1, "1300", "1400", "444bf", 1, 1, 1),
	}
	staff := testStaff()
	p := NewPlan(testConfig(), sessions, staff, emptyGrouping(staff, "333", "444bf"), []string{"333", "444bf"})
	require.NoError(t, p.Assign())

	side := p.Groups[1]
	// Everyone is free again in the afternoon.
	assert.Len(t, p.AvailSide[side], len(staff))
	for _, s := range staff {
		found := false
		for _, a := range p.Schedules[s.Name] {
			if a.Group == side {
				found = true
			}
		}
		assert.True(t, found, "%s should judge the side event", s.Name)
	}
}
