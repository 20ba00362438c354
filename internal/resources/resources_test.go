package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyReputationDelta_ClampsAndTracksWeekMin(t *testing.T) {
	s := New(10)

	first := s.ApplyReputationDelta(-60, "brawl")
	assert.Equal(t, -50, first.New)
	assert.Equal(t, -50, s.WeekMinReputation)

	second := s.ApplyReputationDelta(30, "apology round")
	assert.Equal(t, -20, second.New)

	// ends strictly between the post-first-delta value and the pre-delta
	// value, and the weekly minimum records the trough
	assert.Greater(t, s.Reputation, -50)
	assert.Less(t, s.Reputation, 10)
	assert.Equal(t, -50, s.WeekMinReputation)
	assert.Equal(t, 10, s.PeakReputation)
}

func TestApplyReputationDelta_Clamps(t *testing.T) {
	s := New(90)
	s.ApplyReputationDelta(50, "festival")
	assert.Equal(t, RepMax, s.Reputation)

	s.ApplyReputationDelta(-300, "scandal")
	assert.Equal(t, RepMin, s.Reputation)
}

func TestApplyReputationDelta_NeverVanishes(t *testing.T) {
	s := New(0)
	s.NegativeBias = 0.1

	res := s.ApplyReputationDelta(-2, "spilled pint")
	assert.Equal(t, -1, res.Applied)
	assert.Equal(t, -1, s.Reputation)

	s.PositiveBias = 0.1
	res = s.ApplyReputationDelta(1, "kind word")
	assert.Equal(t, 1, res.Applied)
}

func TestApplyReputationDelta_BiasScaling(t *testing.T) {
	s := New(0)
	s.NegativeBias = 1.5
	s.PositiveBias = 0.5

	res := s.ApplyReputationDelta(-10, "bad week")
	assert.Equal(t, -15, res.Applied)

	res = s.ApplyReputationDelta(10, "good week")
	assert.Equal(t, 5, res.Applied)
}

func TestFloorStreak(t *testing.T) {
	s := New(-99)
	s.ApplyReputationDelta(-5, "one")
	assert.Equal(t, RepMin, s.Reputation)
	assert.False(t, s.RepCollapsed())

	s.ApplyReputationDelta(-5, "two")
	s.ApplyReputationDelta(-5, "three")
	assert.True(t, s.RepCollapsed())

	// any climb above the floor resets the counter
	s.ApplyReputationDelta(10, "recovery")
	assert.Equal(t, 0, s.ConsecutiveNeg100Rounds)
	assert.False(t, s.RepCollapsed())
}

func TestChaosStreakAmplification(t *testing.T) {
	s := New(0)
	p := ChaosParams{BaseRise: 2.0, NegRamp: 1.0, BaseFall: 2.0, PosRamp: 1.0}

	d1 := s.ClassifyRound(RoundBad, p)
	d2 := s.ClassifyRound(RoundBad, p)
	assert.Greater(t, d2, d1)
	assert.Equal(t, 2, s.NegStreak)

	// a good round flips the streaks
	s.ClassifyRound(RoundGood, p)
	assert.Equal(t, 0, s.NegStreak)
	assert.Equal(t, 1, s.PosStreak)

	// neutral breaks both without moving chaos
	before := s.Chaos
	s.ClassifyRound(RoundNeutral, p)
	assert.Equal(t, before, s.Chaos)
	assert.Equal(t, 0, s.PosStreak)
}

func TestChaosClamped(t *testing.T) {
	s := New(0)
	p := ChaosParams{BaseRise: 50.0, NegRamp: 2.0, BaseFall: 50.0, PosRamp: 2.0}
	for i := 0; i < 5; i++ {
		s.ClassifyRound(RoundBad, p)
	}
	assert.Equal(t, ScaleMax, s.Chaos)
	for i := 0; i < 5; i++ {
		s.ClassifyRound(RoundGood, p)
	}
	assert.Equal(t, ScaleMin, s.Chaos)
}

func TestStartWeekResetsTrackers(t *testing.T) {
	s := New(20)
	s.ApplyReputationDelta(-30, "rough patch")
	assert.Equal(t, -10, s.WeekMinReputation)

	s.StartWeek()
	assert.Equal(t, s.Reputation, s.WeekMinReputation)
	assert.Equal(t, 0, s.WeekRepDeltaNet)
}
