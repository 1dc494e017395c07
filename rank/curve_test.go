package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForBreakpoints(t *testing.T) {
	for _, bp := range Breakpoints() {
		assert.Equal(t, bp.Level, LevelFor(bp.MinXP), "at %d xp", bp.MinXP)
		assert.Less(t, LevelFor(bp.MinXP-1), bp.Level, "just below %d xp", bp.MinXP)
	}
}

func TestLevelForBelowFirstBreakpoint(t *testing.T) {
	assert.Equal(t, 0, LevelFor(0))
	assert.Equal(t, 0, LevelFor(9))
	assert.Equal(t, 0, LevelFor(-5))
}

func TestLevelForMonotonic(t *testing.T) {
	prev := LevelFor(0)
	for xp := int64(1); xp <= 110000; xp++ {
		level := LevelFor(xp)
		if level < prev {
			t.Fatalf("level dropped from %d to %d at %d xp", prev, level, xp)
		}
		prev = level
	}
	assert.Equal(t, 100, prev)
}

func TestLevelForBetweenBreakpoints(t *testing.T) {
	assert.Equal(t, 2, LevelFor(108))
	assert.Equal(t, 2, LevelFor(289))
	assert.Equal(t, 5, LevelFor(1089))
	assert.Equal(t, 100, LevelFor(1<<40))
}

func TestNextMilestone(t *testing.T) {
	cases := map[int]int64{
		0:   10,
		1:   50,
		2:   290,
		3:   290,
		5:   1090,
		10:  6490,
		25:  25490,
		50:  56990,
		75:  100990,
		100: 100990,
		250: 100990,
	}
	for level, want := range cases {
		assert.Equal(t, want, NextMilestone(level), "level %d", level)
	}
}

func TestBreakpointsIsACopy(t *testing.T) {
	bps := Breakpoints()
	bps[0].MinXP = 0
	assert.Equal(t, 0, LevelFor(5))
}

func TestLevelUpMessage(t *testing.T) {
	msg := LevelUpMessage("<@1>", 5)
	assert.Contains(t, msg, "<@1> reached **Level 5**!")
	assert.Contains(t, msg, "First week regular")

	assert.Equal(t, "🎉 <@1> hit Level 3!", LevelUpMessage("<@1>", 3))

	for _, level := range []int{1, 2, 5, 10, 25, 50, 75, 100} {
		_, ok := MilestoneMessage(level)
		assert.True(t, ok, "level %d", level)
	}
}
