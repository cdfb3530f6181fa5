// Package stats computes podium statistics: the pairs and trios of people
// who shared the most competition podiums.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cubetools/wcacheck/internal/export"
)

// finalRounds are the round types that can award a podium.
var finalRounds = map[string]bool{"c": true, "f": true}

// Podium is the top three of one event at one competition.
type Podium struct {
	CompetitionID string
	EventID       string
	PersonIDs     []string
}

// Podiums extracts all podiums: positions 1-3 of a final round with a
// valid best result.
func Podiums(results []export.Result) []Podium {
	byEvent := map[string]*Podium{}
	var order []string
	for _, r := range results {
		if !finalRounds[r.RoundTypeID] || r.Pos < 1 || r.Pos > 3 || r.Best <= 0 {
			continue
		}
		key := r.CompetitionID + "|" + r.EventID
		p, ok := byEvent[key]
		if !ok {
			p = &Podium{CompetitionID: r.CompetitionID, EventID: r.EventID}
			byEvent[key] = p
			order = append(order, key)
		}
		p.PersonIDs = append(p.PersonIDs, r.PersonID)
	}
	out := make([]Podium, 0, len(order))
	for _, key := range order {
		out = append(out, *byEvent[key])
	}
	return out
}

// SharedCount is one ranked row: a pair or trio of person IDs and how
// many podiums they shared.
type SharedCount struct {
	PersonIDs []string
	Count     int
}

// Buddies counts shared podiums per unordered pair of distinct people and
// returns the pairs sorted by count descending.
func Buddies(podiums []Podium) []SharedCount {
	counts := map[string]int{}
	for _, p := range podiums {
		for i := 0; i < len(p.PersonIDs); i++ {
			for j := i + 1; j < len(p.PersonIDs); j++ {
				if p.PersonIDs[i] == p.PersonIDs[j] {
					continue
				}
				counts[comboKey(p.PersonIDs[i], p.PersonIDs[j])]++
			}
		}
	}
	return ranked(counts)
}

// Trios counts shared podiums per unordered trio of distinct people.
func Trios(podiums []Podium) []SharedCount {
	counts := map[string]int{}
	for _, p := range podiums {
		ids := p.PersonIDs
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				for k := j + 1; k < len(ids); k++ {
					if ids[i] == ids[j] || ids[i] == ids[k] || ids[j] == ids[k] {
						continue
					}
					counts[comboKey(ids[i], ids[j], ids[k])]++
				}
			}
		}
	}
	return ranked(counts)
}

func comboKey(ids ...string) string {
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

func ranked(counts map[string]int) []SharedCount {
	out := make([]SharedCount, 0, len(counts))
	for key, n := range counts {
		out = append(out, SharedCount{PersonIDs: strings.Split(key, "|"), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.Join(out[i].PersonIDs, "|") < strings.Join(out[j].PersonIDs, "|")
	})
	return out
}

// Names resolves person IDs to current names (SubID 1 rows).
func Names(persons []export.Person) map[string]string {
	names := make(map[string]string, len(persons))
	for _, p := range persons {
		if p.SubID == 1 {
			names[p.ID] = p.Name
		}
	}
	return names
}

// RenderBB renders the top rows as the forum BB-code table the original
// postings used. Ties share a rank number.
func RenderBB(rows []SharedCount, names map[string]string, topN int, title string) string {
	var b strings.Builder
	width := 1200 - 200*max(0, len(peopleColumns(rows))-2)
	fmt.Fprintf(&b, "[spoiler=%q][table=\"width: %d, class: grid, align: left\"]\n", title, width)
	b.WriteString("[tr][td][b]#[/b][/td]")
	for i := range peopleColumns(rows) {
		fmt.Fprintf(&b, "[td][b]Person %d[/b][/td]", i+1)
	}
	b.WriteString("[td][b]Amount of shared Podiums[/b][/td][/tr]\n")

	pos := "1."
	for i, row := range rows {
		if i >= topN {
			break
		}
		if i > 0 && row.Count < rows[i-1].Count {
			pos = fmt.Sprintf("%d.", i+1)
		}
		b.WriteString("[tr]")
		fmt.Fprintf(&b, "[td]%s[/td]", pos)
		for _, id := range row.PersonIDs {
			fmt.Fprintf(&b, "[td]%s[/td]", displayName(names, id))
		}
		fmt.Fprintf(&b, "[td]%d[/td]", row.Count)
		b.WriteString("[/tr]\n")
	}
	b.WriteString("[/table][/spoiler]")
	return b.String()
}

// RenderTSV renders the top rows as plain tab-separated text.
func RenderTSV(rows []SharedCount, names map[string]string, topN int) string {
	var b strings.Builder
	pos := "1."
	for i, row := range rows {
		if i >= topN {
			break
		}
		if i > 0 && row.Count < rows[i-1].Count {
			pos = fmt.Sprintf("%d.", i+1)
		}
		cells := []string{pos}
		for _, id := range row.PersonIDs {
			cells = append(cells, displayName(names, id))
		}
		cells = append(cells, fmt.Sprintf("%d", row.Count))
		b.WriteString(strings.Join(cells, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

func peopleColumns(rows []SharedCount) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].PersonIDs
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
