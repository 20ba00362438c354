package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/last-orders/internal/config"
	"github.com/talgya/last-orders/internal/economy"
	"github.com/talgya/last-orders/internal/entropy"
	"github.com/talgya/last-orders/internal/events"
	"github.com/talgya/last-orders/internal/rumor"
)

func testDeps(seed int64, sink events.Sink) Deps {
	bal := config.Default()
	bal.WeatherEnabled = false
	// quiet floor for tests that grind through many rounds
	bal.BaseIncidentChance = 0.05
	if sink == nil {
		sink = events.Discard{}
	}
	return Deps{Balance: bal, RNG: entropy.NewSeeded(seed), Sink: sink}
}

func newTestSim(seed int64) *Simulation {
	return NewSimulation(seed, 250, 10, testDeps(seed, nil))
}

func playFullNight(t *testing.T, s *Simulation) {
	t.Helper()
	require.True(t, s.OpenNight().OK)
	for s.NightOpen {
		require.True(t, s.PlayRound().OK)
	}
}

func TestEarlyClosePenaltyValues(t *testing.T) {
	s := newTestSim(1)
	assert.Equal(t, -40, s.earlyClosePenalty(20))
	assert.Equal(t, -10, s.earlyClosePenalty(5))
	assert.Equal(t, -3, s.earlyClosePenalty(1))
	assert.Equal(t, 0, s.earlyClosePenalty(0))
	assert.Equal(t, 0, s.earlyClosePenalty(-3))
}

func TestNightStateMachine(t *testing.T) {
	s := newTestSim(2)

	out := s.PlayRound()
	assert.False(t, out.OK)
	assert.Equal(t, "Night not open.", out.Reason)

	out = s.CloseNight("bored")
	assert.False(t, out.OK)

	require.True(t, s.OpenNight().OK)
	out = s.OpenNight()
	assert.False(t, out.OK)
	assert.Equal(t, "Night already open.", out.Reason)

	require.True(t, s.PlayRound().OK)
	assert.Equal(t, 1, s.Round)
	assert.True(t, s.CloseNight("early night").OK)
	assert.False(t, s.NightOpen)
}

func TestNightAutoClosesAtCap(t *testing.T) {
	s := newTestSim(3)
	require.True(t, s.OpenNight().OK)

	cap := s.ClosingRound()
	for i := 0; i < cap; i++ {
		require.True(t, s.PlayRound().OK)
	}
	assert.False(t, s.NightOpen, "night shuts itself at the closing round")
	assert.Equal(t, cap, s.Round)
	assert.Equal(t, 2, s.Day)
}

func TestEarlyCloseAppliesExactPenalty(t *testing.T) {
	s := newTestSim(4)
	require.True(t, s.OpenNight().OK)
	require.True(t, s.PlayRound().OK)
	require.True(t, s.PlayRound().OK)

	before := s.Resources.Reputation
	require.True(t, s.CloseNight("family emergency").OK)

	// 18 rounds left at 2 points each, neutral biases
	assert.Equal(t, before-36, s.Resources.Reputation)
}

type scriptSource struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scriptSource) Float() float64 {
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *scriptSource) IntN(n int) int {
	v := s.ints[s.ii%len(s.ints)] % n
	s.ii++
	return v
}

func TestCoversCountUniquePatronsOnly(t *testing.T) {
	deps := testDeps(5, nil)
	// every draw is the same patron, and no incident ever fires
	deps.RNG = &scriptSource{floats: []float64{0.99}, ints: []int{5}}
	s := NewSimulation(5, 250, 10, deps)

	require.True(t, s.OpenNight().OK)
	require.True(t, s.PlayRound().OK)
	require.True(t, s.PlayRound().OK)
	require.True(t, s.PlayRound().OK)

	assert.Equal(t, 1, s.NightCovers, "repeat service never grows the count")
	assert.Equal(t, 1, s.TotalCovers)

	// the set resets with a new service
	require.True(t, s.CloseNight("quiet one").OK)
	require.True(t, s.OpenNight().OK)
	assert.Empty(t, s.Served)
	assert.Equal(t, 0, s.NightCovers)
	assert.Equal(t, 1, s.TotalCovers, "lifetime covers persist")
}

func TestWeekRolloverAndCallbackIdempotence(t *testing.T) {
	var calls []int
	deps := testDeps(6, nil)
	deps.WeekStart = func(week int) { calls = append(calls, week) }
	s := NewSimulation(6, 500, 10, deps)

	for day := 1; day <= 7; day++ {
		playFullNight(t, s)
	}

	assert.Equal(t, 2, s.Week)
	assert.Equal(t, 1, s.Day)
	assert.Equal(t, []int{2}, calls, "exactly one firing per week transition")

	// a host poking the boundary again must not re-fire
	s.fireWeekStart(2)
	assert.Equal(t, []int{2}, calls)

	for day := 1; day <= 7; day++ {
		playFullNight(t, s)
	}
	assert.Equal(t, []int{2, 3}, calls)
}

func TestWeekEndSettlesPayday(t *testing.T) {
	s := newTestSim(7)
	s.OrderStock(200)
	for day := 1; day <= 7; day++ {
		playFullNight(t, s)
	}

	// wages and rent went out, the supplier minimum came off the tab
	assert.Greater(t, s.Ledger.CostsByTag["wages"], 0.0)
	assert.Greater(t, s.Ledger.CostsByTag["rent"], 0.0)
	assert.Less(t, s.Ledger.Trade.Balance, 200.0)
}

func TestOneActionPerRoundAcrossCommands(t *testing.T) {
	s := newTestSim(8)
	require.True(t, s.OpenNight().OK)
	require.True(t, s.PlayRound().OK)

	assert.True(t, s.ResolveLandlordAction("free_round").OK)
	out := s.ResolveLandlordAction("karaoke")
	assert.False(t, out.OK)
	assert.Equal(t, "Only one action per round.", out.Reason)

	// the next round unlocks the family again
	require.True(t, s.PlayRound().OK)
	assert.True(t, s.ResolveLandlordAction("karaoke").OK)
}

func TestCommandsRequireOpenNight(t *testing.T) {
	s := newTestSim(9)

	for name, out := range map[string]Outcome{
		"action":  s.ResolveLandlordAction("free_round"),
		"task":    s.ResolveSecurityTask("check_ids"),
		"bouncer": s.HireBouncer(),
	} {
		assert.False(t, out.OK, name)
		assert.Equal(t, "Night not open.", out.Reason, name)
	}
}

func TestOpenCreditLineAndFallback(t *testing.T) {
	s := newTestSim(10)
	assert.True(t, s.OpenCreditLine("Harrow & Finch").OK)
	assert.False(t, s.OpenCreditLine("Harrow & Finch").OK)

	s.Ledger.Cash = 10
	assert.True(t, s.TryPay(200, "refit").OK)
	assert.Equal(t, 0.0, s.Ledger.Cash)
	assert.Greater(t, s.Ledger.TotalCreditBalance(), 0.0)
}

func TestPrestigeThroughTheEngine(t *testing.T) {
	s := newTestSim(11)
	require.True(t, s.BuySecurityUpgrade("door_1").OK)

	out := s.ConfirmPrestige()
	assert.False(t, out.OK)

	s.Progress.PubLevel = 5
	for i := 0; i < 27; i++ {
		s.Progress.Grant(fmt.Sprintf("m%02d", i))
	}
	cashBefore := s.Ledger.Cash
	repBefore := s.Resources.Reputation

	assert.True(t, s.ConfirmPrestige().OK)
	assert.Equal(t, 1, s.Progress.Stars)
	assert.Empty(t, s.Security.Owned, "bought posture is cleared")
	assert.Equal(t, cashBefore, s.Ledger.Cash, "cash survives prestige")
	assert.Equal(t, repBefore, s.Resources.Reputation, "reputation survives prestige")
}

func TestBankruptcyThroughTheEngine(t *testing.T) {
	s := newTestSim(12)
	require.True(t, s.BuySecurityUpgrade("light_1").OK)
	s.Progress.PubLevel = 3
	s.Progress.Stars = 2
	s.OrderStock(150)

	assert.True(t, s.DeclareBankruptcy().OK)
	assert.Empty(t, s.Security.Owned)
	assert.Equal(t, 0, s.Progress.PubLevel)
	assert.Equal(t, 0, s.Progress.Stars)
	assert.Equal(t, 400.0, s.Ledger.Trade.HardCap)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestSim(13)
	require.True(t, s.OpenCreditLine("Dockside Credit Union").OK)
	playFullNight(t, s)
	require.True(t, s.OpenNight().OK)
	require.True(t, s.PlayRound().OK)

	payload, err := s.Marshal()
	require.NoError(t, err)

	restored, err := Restore(payload, testDeps(13, nil))
	require.NoError(t, err)

	assert.Equal(t, s.Week, restored.Week)
	assert.Equal(t, s.Day, restored.Day)
	assert.Equal(t, s.Round, restored.Round)
	assert.Equal(t, s.NightOpen, restored.NightOpen)
	assert.Equal(t, s.Served, restored.Served, "the served-patron set survives the trip")
	assert.Equal(t, s.Ledger.Cash, restored.Ledger.Cash)
	assert.Equal(t, s.Resources.Reputation, restored.Resources.Reputation)
	assert.Equal(t, s.Progress.AchievedCount, restored.Progress.AchievedCount)
	assert.Len(t, restored.Ledger.Lines, 1)

	// the restored game keeps playing
	assert.True(t, restored.PlayRound().OK)
}

func TestRestoreRejectsBadPayload(t *testing.T) {
	_, err := Restore([]byte("not json"), testDeps(14, nil))
	assert.Error(t, err)

	_, err = Restore([]byte(`{"week": 3}`), testDeps(14, nil))
	assert.Error(t, err, "a snapshot without subsystem state must fail loudly")
}

func TestEventSinkReceivesTaggedEntries(t *testing.T) {
	mem := &events.Memory{}
	deps := testDeps(15, mem)
	s := NewSimulation(15, 250, 10, deps)

	playFullNight(t, s)
	assert.NotEmpty(t, mem.Entries)
	for _, e := range mem.Entries {
		assert.Equal(t, 1, e.Week)
		assert.NotEmpty(t, e.Tone)
		assert.NotEmpty(t, e.Text)
	}
}

func TestPaydayHookRoutesBillsOntoCredit(t *testing.T) {
	var s *Simulation
	deps := testDeps(30, nil)
	deps.Payday = func(bills []*economy.PaydayBill) {
		line := s.Ledger.Lines[0]
		for _, b := range bills {
			b.SourceID = line.ID
		}
	}
	s = NewSimulation(30, 0, 10, deps)
	require.True(t, s.OpenCreditLine("Harrow & Finch").OK)
	s.Ledger.Lines[0].Limit = 5000

	// an empty till on payday, with every bill riding the line
	s.Day = 7
	require.True(t, s.OpenNight().OK)
	require.True(t, s.CloseNight("early").OK)

	assert.Equal(t, 2, s.Week)
	assert.Equal(t, 0, s.Ledger.MissStreak, "line-funded bills met the minimums")
	assert.Greater(t, s.Ledger.Lines[0].Balance, 0.0)
	assert.Equal(t, 0.0, s.Ledger.Cash)
}

func TestRumorMoodWearsOnStaff(t *testing.T) {
	base := newTestSim(31)
	soured := newTestSim(31)
	soured.Rumors.Instances = []rumor.Instance{
		{Topic: "fight_night", Intensity: 80, Spread: 1.0, DaysRemaining: 7},
	}

	require.True(t, base.OpenNight().OK)
	require.True(t, base.CloseNight("quiet").OK)
	require.True(t, soured.OpenNight().OK)
	require.True(t, soured.CloseNight("quiet").OK)

	// mood bias -0.12 scaled onto the nightly morale drift
	assert.InDelta(t, base.Resources.Morale-0.6, soured.Resources.Morale, 1e-9)
}

func TestStormNightsAreCounted(t *testing.T) {
	deps := testDeps(32, nil)
	deps.Balance.WeatherEnabled = true
	// every weather roll lands a storm, every other roll stays quiet
	deps.RNG = &scriptSource{floats: []float64{0.95}, ints: []int{5}}
	s := NewSimulation(32, 250, 10, deps)

	for night := 0; night < 3; night++ {
		require.True(t, s.OpenNight().OK)
		require.True(t, s.CloseNight("storm watch").OK)
	}
	assert.Equal(t, 3, s.StormNights)
}

func TestDeterministicReplay(t *testing.T) {
	run := func() ([]byte, error) {
		s := newTestSim(99)
		for day := 1; day <= 7; day++ {
			playFullNight(t, s)
		}
		return s.Marshal()
	}
	a, err := run()
	require.NoError(t, err)
	b, err := run()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b), "same seed, same inputs, same state")
}
