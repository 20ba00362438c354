// Package resources holds the bounded scalar mood of the pub: reputation,
// chaos, and morale. Every mutation goes through the methods here so the
// clamps and streak trackers can never be bypassed. Money lives in the
// economy ledger; this package is the social side.
package resources

import "math"

const (
	RepMin              = -100
	RepMax              = 100
	ScaleMin            = 0.0
	ScaleMax            = 100.0
	RepFloorStreakLimit = 3
)

// State is the resource block of the game. Reputation, chaos, and morale
// all survive prestige.
type State struct {
	Reputation        int `json:"reputation"`
	PeakReputation    int `json:"peak_reputation"`
	WeekMinReputation int `json:"week_min_reputation"`

	Chaos  float64 `json:"chaos"`
	Morale float64 `json:"morale"`

	// ConsecutiveNeg100Rounds counts rounds spent pinned at the reputation
	// floor. Any value above -100 resets it.
	ConsecutiveNeg100Rounds int `json:"consecutive_neg100_rounds"`

	PosStreak int `json:"pos_streak"`
	NegStreak int `json:"neg_streak"`

	// Reputation delta scaling. Level multiplier comes from the progression
	// gate; the bias factors come from the economy's debt-spiral tier. The
	// asymmetry lets losses be amplified independently of gains.
	LevelRepMultiplier float64 `json:"level_rep_multiplier"`
	NegativeBias       float64 `json:"negative_bias"`
	PositiveBias       float64 `json:"positive_bias"`

	// Weekly tracking for milestone evaluation.
	WeekRepDeltaNet int `json:"week_rep_delta_net"`
}

// New creates resource state for a fresh game.
func New(reputation int) *State {
	return &State{
		Reputation:         reputation,
		PeakReputation:     reputation,
		WeekMinReputation:  reputation,
		Morale:             60.0,
		LevelRepMultiplier: 1.0,
		NegativeBias:       1.0,
		PositiveBias:       1.0,
	}
}

// RepResult describes one reputation mutation.
type RepResult struct {
	Raw     int
	Applied int
	New     int
	AtFloor bool
	Reason  string
}

// ApplyReputationDelta scales delta by the level multiplier and the signed
// bias factor, rounds half away from zero, and clamps the running total.
// A non-zero raw delta never vanishes: if scaling rounds to zero the applied
// magnitude is floored at 1.
func (s *State) ApplyReputationDelta(delta int, reason string) RepResult {
	if delta == 0 {
		return RepResult{New: s.Reputation, Reason: reason}
	}

	bias := s.PositiveBias
	if delta < 0 {
		bias = s.NegativeBias
	}
	scaled := float64(delta) * s.LevelRepMultiplier * bias
	applied := int(math.Round(scaled))
	if applied == 0 {
		if delta > 0 {
			applied = 1
		} else {
			applied = -1
		}
	}

	s.Reputation = clampInt(s.Reputation+applied, RepMin, RepMax)
	s.WeekRepDeltaNet += applied

	if s.Reputation > s.PeakReputation {
		s.PeakReputation = s.Reputation
	}
	if s.Reputation < s.WeekMinReputation {
		s.WeekMinReputation = s.Reputation
	}

	atFloor := s.Reputation == RepMin
	if atFloor {
		s.ConsecutiveNeg100Rounds++
	} else {
		s.ConsecutiveNeg100Rounds = 0
	}

	return RepResult{Raw: delta, Applied: applied, New: s.Reputation, AtFloor: atFloor, Reason: reason}
}

// RepCollapsed reports whether reputation has sat at the floor long enough
// to end the game.
func (s *State) RepCollapsed() bool {
	return s.ConsecutiveNeg100Rounds >= RepFloorStreakLimit
}

// Classification is the round verdict that drives chaos streaks.
type Classification int

const (
	RoundNeutral Classification = iota
	RoundGood
	RoundBad
)

// ChaosParams are the streak amplification constants, passed from balance.
type ChaosParams struct {
	BaseRise float64
	NegRamp  float64
	BaseFall float64
	PosRamp  float64
}

// ClassifyRound records a round verdict and moves chaos. Bad rounds raise
// chaos by an amount that grows with the bad streak; good rounds lower it
// symmetrically. A neutral round breaks both streaks without moving chaos.
func (s *State) ClassifyRound(c Classification, p ChaosParams) float64 {
	var delta float64
	switch c {
	case RoundBad:
		s.NegStreak++
		s.PosStreak = 0
		delta = p.BaseRise * (float64(s.NegStreak) * p.NegRamp)
	case RoundGood:
		s.PosStreak++
		s.NegStreak = 0
		delta = -p.BaseFall * (float64(s.PosStreak) * p.PosRamp)
	default:
		s.PosStreak = 0
		s.NegStreak = 0
	}
	s.Chaos = clampFloat(s.Chaos+delta, ScaleMin, ScaleMax)
	return delta
}

// AdjustChaos moves chaos within [0, 100] outside the round classifier,
// for action fallout and event effects.
func (s *State) AdjustChaos(delta float64) {
	s.Chaos = clampFloat(s.Chaos+delta, ScaleMin, ScaleMax)
}

// CoolChaos applies the between-nights chaos decay.
func (s *State) CoolChaos(amount float64) {
	s.Chaos = clampFloat(s.Chaos-amount, ScaleMin, ScaleMax)
}

// AdjustMorale moves morale within [0, 100].
func (s *State) AdjustMorale(delta float64) {
	s.Morale = clampFloat(s.Morale+delta, ScaleMin, ScaleMax)
}

// StartWeek resets the weekly trackers to the current values.
func (s *State) StartWeek() {
	s.WeekMinReputation = s.Reputation
	s.WeekRepDeltaNet = 0
}

// StartNight clears the per-night streaks.
func (s *State) StartNight() {
	s.PosStreak = 0
	s.NegStreak = 0
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
