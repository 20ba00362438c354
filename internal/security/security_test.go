package security

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/last-orders/internal/config"
	"github.com/talgya/last-orders/internal/economy"
	"github.com/talgya/last-orders/internal/entropy"
)

func testState(cash float64) (*State, *economy.Ledger) {
	bal := config.Default()
	return New(bal), economy.NewLedger(cash, bal, entropy.NewSeeded(1), nil)
}

func TestCatalogTiersStrictlyImprove(t *testing.T) {
	byLine := map[string][]Upgrade{}
	for _, u := range Upgrades {
		byLine[u.Line] = append(byLine[u.Line], u)
	}
	for line, tiers := range byLine {
		if line == "licence" {
			continue
		}
		for i := 1; i < len(tiers); i++ {
			assert.Less(t, tiers[i].IncidentFactor, tiers[i-1].IncidentFactor, line)
			assert.Less(t, tiers[i].LossFactor, tiers[i-1].LossFactor, line)
		}
	}
}

func TestEffectiveSecurity(t *testing.T) {
	s, l := testState(10000)
	s.BaseLevel = 2
	s.BouncersTonight = 2
	s.SkilledManager = true
	s.StaffSecurityBonus = 1

	assert.True(t, s.BuyUpgrade("door_1", l).OK)
	assert.Equal(t, 2+1+4+1+1, s.EffectiveSecurity())
}

func TestIncidentComposition_CheckIDs(t *testing.T) {
	s, l := testState(10000)
	assert.True(t, s.BuyUpgrade("door_1", l).OK)
	s.BouncersTonight = 1

	before := s.IncidentMultiplier()

	out := s.ResolveTask("check_ids", 1, l)
	assert.True(t, out.OK)

	// activation applies the task factor immediately
	assert.InDelta(t, before*0.92, s.IncidentMultiplier(), 1e-9)

	// active for exactly its configured duration
	task, _ := TaskByID("check_ids")
	for i := 0; i < task.Duration; i++ {
		_, active := s.Tasks.ActiveID()
		assert.True(t, active)
		s.TickRound()
	}

	// on expiry the factor is gone and the cooldown starts ticking
	assert.InDelta(t, before, s.IncidentMultiplier(), 1e-9)
	st := s.Tasks.State("check_ids")
	assert.Equal(t, task.Cooldown, st.CooldownRemaining)
	s.TickRound()
	assert.Equal(t, task.Cooldown-1, st.CooldownRemaining)
}

func TestCompositionIsOrderIndependent(t *testing.T) {
	a, l := testState(10000)
	assert.True(t, a.BuyUpgrade("light_1", l).OK)
	assert.True(t, a.BuyUpgrade("alarm_1", l).OK)

	b, l2 := testState(10000)
	assert.True(t, b.BuyUpgrade("alarm_1", l2).OK)
	assert.True(t, b.BuyUpgrade("light_1", l2).OK)

	assert.InDelta(t, a.IncidentMultiplier(), b.IncidentMultiplier(), 1e-12)
	assert.InDelta(t, a.LossMultiplier(), b.LossMultiplier(), 1e-12)
}

func TestTaskPrerequisites(t *testing.T) {
	s, l := testState(10000)

	out := s.ResolveTask("check_ids", 1, l)
	assert.False(t, out.OK)
	assert.Equal(t, "Needs a locking upgrade first.", out.Reason)

	assert.True(t, s.BuyUpgrade("door_1", l).OK)
	out = s.ResolveTask("check_ids", 1, l)
	assert.False(t, out.OK)
	assert.Equal(t, "Nobody on the door to run it.", out.Reason)

	s.Marshalls = 1
	assert.True(t, s.ResolveTask("check_ids", 2, l).OK)

	// a second task while one is active is rejected
	out = s.ResolveTask("walk_the_floor", 3, l)
	assert.False(t, out.OK)
	assert.Equal(t, "Already active.", out.Reason)
}

func TestBuyUpgrade_TierOrderAndCashOnly(t *testing.T) {
	s, l := testState(10000)

	out := s.BuyUpgrade("door_2", l)
	assert.False(t, out.OK)
	assert.Equal(t, "Earlier tier required first.", out.Reason)

	assert.True(t, s.BuyUpgrade("door_1", l).OK)
	assert.True(t, s.BuyUpgrade("door_2", l).OK)

	out = s.BuyUpgrade("door_2", l)
	assert.False(t, out.OK)
	assert.Equal(t, "Already installed.", out.Reason)

	// purchases are cash only: no credit fallback even with a line open
	broke, ledger := testState(10)
	ledger.Lines = append(ledger.Lines, &economy.CreditLine{
		ID: "x", Lender: "Harrow & Finch", Kind: economy.LenderHighStreet, Limit: 5000, Enabled: true,
	})
	out = broke.BuyUpgrade("door_1", ledger)
	assert.False(t, out.OK)
	assert.Equal(t, "Insufficient cash.", out.Reason)
	assert.Equal(t, 10.0, ledger.Cash)
}

func TestClosingRoundBonus(t *testing.T) {
	s, l := testState(10000)
	assert.Equal(t, 0, s.ClosingRoundBonus())
	assert.True(t, s.BuyUpgrade("late_licence", l).OK)
	assert.Equal(t, 5, s.ClosingRoundBonus())
}

func TestRemoveCheapestUpgrades(t *testing.T) {
	s, l := testState(10000)
	assert.True(t, s.BuyUpgrade("light_1", l).OK)
	assert.True(t, s.BuyUpgrade("door_1", l).OK)
	assert.True(t, s.BuyUpgrade("alarm_1", l).OK)

	removed := s.RemoveCheapestUpgrades(2)
	assert.Equal(t, []string{"Yard lighting", "Reinforced door"}, removed)
	assert.True(t, s.Owns("alarm_1"))
	assert.Len(t, s.Owned, 1)
}

func TestDoorPolicyAffectsBothSides(t *testing.T) {
	s, _ := testState(0)
	assert.True(t, s.SetDoorPolicy("regulars").OK)
	assert.Equal(t, 0.78, s.IncidentMultiplier())
	assert.Equal(t, 0.80, s.TrafficMultiplier())

	assert.False(t, s.SetDoorPolicy("velvet_rope").OK)
}
