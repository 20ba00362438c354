package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCooldownGrowthWithUses(t *testing.T) {
	f := NewFamily(0.1, 1.0)

	// first use pays the base cooldown
	out := f.Activate("flyer_run", 10, 0, 1, nil)
	assert.True(t, out.OK)
	assert.Equal(t, 10, f.State("flyer_run").CooldownRemaining)

	for i := 0; i < 10; i++ {
		f.Tick()
	}
	assert.Equal(t, 0, f.State("flyer_run").CooldownRemaining)

	// second use pays ceil(base * 1.1)
	out = f.Activate("flyer_run", 10, 0, 2, nil)
	assert.True(t, out.OK)
	assert.Equal(t, 11, f.State("flyer_run").CooldownRemaining)
}

func TestCooldownPlateausAtDouble(t *testing.T) {
	assert.Equal(t, 20, scaledCooldown(10, 10, 0.1, 1.0))
	assert.Equal(t, 20, scaledCooldown(10, 25, 0.1, 1.0))
}

func TestCooldownStartsOnlyAfterDuration(t *testing.T) {
	f := NewFamily(0.1, 1.0)

	out := f.Activate("check_ids", 6, 4, 1, nil)
	assert.True(t, out.OK)

	st := f.State("check_ids")
	assert.Equal(t, 4, st.RoundsRemaining)
	assert.Equal(t, 0, st.CooldownRemaining, "cooldown must not start on activation")

	f.Tick()
	f.Tick()
	f.Tick()
	assert.Equal(t, 1, st.RoundsRemaining)
	assert.Equal(t, 0, st.CooldownRemaining)

	// duration expires; cooldown starts on the same tick
	f.Tick()
	assert.Equal(t, 0, st.RoundsRemaining)
	assert.Equal(t, 6, st.CooldownRemaining)

	// and decrements by one per round thereafter
	f.Tick()
	assert.Equal(t, 5, st.CooldownRemaining)
}

func TestOneActionPerRound(t *testing.T) {
	f := NewFamily(0.1, 1.0)

	assert.True(t, f.Activate("quiz_night", 5, 0, 7, nil).OK)
	out := f.Activate("free_round", 5, 0, 7, nil)
	assert.False(t, out.OK)
	assert.Equal(t, "Only one action per round.", out.Reason)

	// a later round unlocks the family
	assert.True(t, f.Activate("free_round", 5, 0, 8, nil).OK)
}

func TestActivateWhileCoolingDown(t *testing.T) {
	f := NewFamily(0.1, 1.0)
	f.Activate("quiz_night", 5, 0, 1, nil)

	out := f.Activate("quiz_night", 5, 0, 2, nil)
	assert.False(t, out.OK)
	assert.Equal(t, "Cooldown active.", out.Reason)
}

func TestActivatePaymentBlocked(t *testing.T) {
	f := NewFamily(0.1, 1.0)

	out := f.Activate("quiz_night", 5, 0, 1, func() bool { return false })
	assert.False(t, out.OK)
	assert.Equal(t, "Insufficient cash.", out.Reason)

	// nothing changed: a retry with funds succeeds in the same round
	st := f.State("quiz_night")
	assert.Equal(t, 0, st.Uses)
	assert.True(t, f.Activate("quiz_night", 5, 0, 1, func() bool { return true }).OK)
}

func TestActiveID(t *testing.T) {
	f := NewFamily(0.1, 1.0)
	_, active := f.ActiveID()
	assert.False(t, active)

	f.Activate("check_ids", 6, 4, 1, nil)
	id, active := f.ActiveID()
	assert.True(t, active)
	assert.Equal(t, "check_ids", id)
}
