package rumor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddHeatClamps(t *testing.T) {
	s := New()
	s.AddHeat("watered_beer", 150)
	assert.Equal(t, 100, s.Heat["watered_beer"])

	s.AddHeat("watered_beer", -300)
	assert.Equal(t, 0, s.Heat["watered_beer"])
}

func TestWeeklyDecayBounds(t *testing.T) {
	s := New()
	s.AddHeat("fight_night", 100)

	// agitated pub: calm goes negative and decay speeds up
	// calm = -0.05 (morale) - 0.06 (negative events) = -0.11
	// decay = round(2 + 100*0.04 + 0.55) = 7
	s.WeekUpdate(30, 0, 5)
	assert.Equal(t, 93, s.Heat["fight_night"])

	// calm pub: decay never drops below 1
	s2 := New()
	s2.AddHeat("best_pie", 1)
	s2.WeekUpdate(80, 3, 0)
	assert.Equal(t, 0, s2.Heat["best_pie"])
}

func TestWeeklyDecayFormula(t *testing.T) {
	s := New()
	s.AddHeat("resident_ghost", 50)

	// calm = +0.10 (morale) + 0.06 (security) = 0.16
	// decay = round(2 + 50*0.04 - 0.16*5) = round(3.2) = 3
	s.WeekUpdate(75, 2, 0)
	assert.Equal(t, 47, s.Heat["resident_ghost"])
}

func TestInstancesRebuiltFromHeat(t *testing.T) {
	s := New()
	s.AddHeat("best_pie", 60)
	s.WeekUpdate(50, 0, 0)

	assert.Len(t, s.Instances, 1)
	inst := s.Instances[0]
	assert.Equal(t, "best_pie", inst.Topic)
	assert.Equal(t, s.Heat["best_pie"], inst.Intensity)
	assert.InDelta(t, 0.15+float64(inst.Intensity)/200.0, inst.Spread, 1e-9)
	assert.GreaterOrEqual(t, inst.DaysRemaining, 2)
	assert.LessOrEqual(t, inst.DaysRemaining, 14)

	// cooled topics drop out entirely
	s.Heat["best_pie"] = 0
	s.WeekUpdate(50, 0, 0)
	assert.Empty(t, s.Instances)
}

func TestTrafficMultiplierClamped(t *testing.T) {
	s := New()
	assert.Equal(t, 1.0, s.TrafficMultiplier())

	for _, topic := range []string{"watered_beer", "fight_night", "shark_money"} {
		s.AddHeat(topic, 100)
	}
	s.WeekUpdate(0, 0, 10)
	assert.GreaterOrEqual(t, s.TrafficMultiplier(), 0.80)
	assert.Less(t, s.TrafficMultiplier(), 1.0)

	s2 := New()
	for _, topic := range []string{"best_pie", "celebrity_seen", "resident_ghost"} {
		s2.AddHeat(topic, 100)
	}
	s2.WeekUpdate(90, 3, 0)
	assert.LessOrEqual(t, s2.TrafficMultiplier(), 1.20)
	assert.Greater(t, s2.TrafficMultiplier(), 1.0)
}

func TestBiasesClamped(t *testing.T) {
	s := New()
	for _, topic := range []string{"watered_beer", "fight_night", "shark_money"} {
		s.AddHeat(topic, 100)
	}
	s.WeekUpdate(0, 0, 10)

	assert.GreaterOrEqual(t, s.WealthBias(), -0.20)
	assert.GreaterOrEqual(t, s.MoodBias(), -0.20)
	assert.Less(t, s.WealthBias(), 0.0)
	assert.Less(t, s.MoodBias(), 0.0)
}
