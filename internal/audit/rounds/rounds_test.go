package rounds

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubetools/wcacheck/internal/audit"
	"github.com/cubetools/wcacheck/internal/export"
)

func result(comp, event, roundType string, pos int, values ...int) export.Result {
	r := export.Result{
		CompetitionID: comp,
		EventID:       event,
		RoundTypeID:   roundType,
		Pos:           pos,
	}
	copy(r.Values[:], values)
	return r
}

func TestCheckCleanCombinedRound(t *testing.T) {
	// The competitor who missed the cutoff placed below everyone with a
	// full set of attempts.
	results := []export.Result{
		result("TestOpen2019", "333", "c", 1, 900, 950, 1000, 980, 920),
		result("TestOpen2019", "333", "c", 2, 1100, 1050, 1200, 1150, 1120),
		result("TestOpen2019", "333", "c", 3, 2000, 2100, 0, 0, 0),
	}
	assert.Empty(t, Check(results))
}

func TestCheckStrangeCombinedRound(t *testing.T) {
	// Pos 1 holds fewer results than pos 2.
	results := []export.Result{
		result("TestOpen2019", "333", "c", 1, 900, 950, 0, 0, 0),
		result("TestOpen2019", "333", "c", 2, 1100, 1050, 1200, 1150, 1120),
	}
	got := Check(results)
	require.Len(t, got, 1)
	assert.Equal(t, "TestOpen2019/333/c", got[0].EntityID)
	assert.Equal(t, Rule, got[0].Rule)
}

func TestCheckIgnoresFullRounds(t *testing.T) {
	// Same shape in a non-combined round type is legitimate (DNS rows).
	results := []export.Result{
		result("TestOpen2019", "333", "f", 1, 900, 950, 0, 0, 0),
		result("TestOpen2019", "333", "f", 2, 1100, 1050, 1200, 1150, 1120),
	}
	assert.Empty(t, Check(results))
}

func TestCheckOrderedByYear(t *testing.T) {
	results := []export.Result{
		result("ZetaOpen2021", "222", "d", 1, 500, 0, 0, 0, 0),
		result("ZetaOpen2021", "222", "d", 2, 400, 450, 0, 0, 0),
		result("AlphaOpen2019", "333", "e", 1, 900, 0, 0, 0, 0),
		result("AlphaOpen2019", "333", "e", 2, 800, 850, 0, 0, 0),
	}
	got := Check(results)
	require.Len(t, got, 2)
	assert.Equal(t, "AlphaOpen2019/333/e", got[0].EntityID)
	assert.Equal(t, "ZetaOpen2021/222/d", got[1].EntityID)
}

func TestCheckThreeRoundCompetitionReport(t *testing.T) {
	// Three rounds of one event; only round two is short one result at
	// the top. The rendered report holds exactly one line naming it.
	results := []export.Result{
		// Round one, everyone full.
		result("CubeDays2020", "444", "1", 1, 3000, 3100, 3200, 3050, 2990),
		result("CubeDays2020", "444", "1", 2, 3300, 3250, 3400, 3500, 3350),
		result("CubeDays2020", "444", "1", 3, 4000, 4100, 4050, 3900, 3950),
		// Round two, combined: the winner is missing an attempt.
		result("CubeDays2020", "444", "e", 1, 3000, 3100, 3200, 3050, 0),
		result("CubeDays2020", "444", "e", 2, 3300, 3250, 3400, 3500, 3350),
		// Final, full again.
		result("CubeDays2020", "444", "f", 1, 2900, 3000, 3100, 2950, 2890),
		result("CubeDays2020", "444", "f", 2, 3200, 3150, 3300, 3400, 3250),
	}
	violations := Check(results)

	var buf bytes.Buffer
	r := &audit.Reporter{Out: &buf}
	_, err := r.Render(Rule, violations)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "CubeDays2020/444/e")
}
