// Package rounds flags strange combined rounds: rounds where a competitor
// holds fewer results than a strictly worse placed competitor.
package rounds

import (
	"fmt"
	"sort"

	"github.com/cubetools/wcacheck/internal/audit"
	"github.com/cubetools/wcacheck/internal/export"
)

// Rule is the rule name attached to violations.
const Rule = "strange-round"

// combined marks the round types where a cutoff can leave competitors with
// fewer attempts than others.
var combined = map[string]bool{"c": true, "d": true, "e": true, "g": true, "h": true}

type roundKey struct {
	CompetitionID string
	EventID       string
	RoundTypeID   string
}

// posRange tracks the best and worst position seen for one count of
// missing attempts within a round.
type posRange struct {
	min, max int
}

// Check scans all results and reports each combined round where some
// competitor has strictly more missing attempts than a strictly worse
// placed one. One violation per round, ordered by competition year.
func Check(results []export.Result) []audit.Violation {
	byRound := make(map[roundKey]map[int]*posRange)
	for _, r := range results {
		if !combined[r.RoundTypeID] {
			continue
		}
		key := roundKey{r.CompetitionID, r.EventID, r.RoundTypeID}
		zeros := r.ZeroCount()
		ranges, ok := byRound[key]
		if !ok {
			ranges = make(map[int]*posRange)
			byRound[key] = ranges
		}
		pr, ok := ranges[zeros]
		if !ok {
			ranges[zeros] = &posRange{min: r.Pos, max: r.Pos}
			continue
		}
		if r.Pos < pr.min {
			pr.min = r.Pos
		}
		if r.Pos > pr.max {
			pr.max = r.Pos
		}
	}

	var strange []roundKey
	for key, ranges := range byRound {
		if isStrange(ranges) {
			strange = append(strange, key)
		}
	}
	sort.Slice(strange, func(i, j int) bool {
		yi, _ := export.CompetitionYear(strange[i].CompetitionID)
		yj, _ := export.CompetitionYear(strange[j].CompetitionID)
		if yi != yj {
			return yi < yj
		}
		if strange[i].CompetitionID != strange[j].CompetitionID {
			return strange[i].CompetitionID < strange[j].CompetitionID
		}
		if strange[i].EventID != strange[j].EventID {
			return strange[i].EventID < strange[j].EventID
		}
		return strange[i].RoundTypeID < strange[j].RoundTypeID
	})

	out := make([]audit.Violation, 0, len(strange))
	for _, key := range strange {
		out = append(out, audit.Violation{
			EntityID:    fmt.Sprintf("%s/%s/%s", key.CompetitionID, key.EventID, key.RoundTypeID),
			Rule:        Rule,
			Description: "competitor with fewer results placed above a competitor with more results",
		})
	}
	return out
}

// isStrange reports whether some competitor with more missing attempts
// placed at or above a competitor with fewer missing attempts.
func isStrange(ranges map[int]*posRange) bool {
	for zHigh, high := range ranges {
		for zLow, low := range ranges {
			if zHigh > zLow && high.min <= low.max {
				return true
			}
		}
	}
	return false
}
