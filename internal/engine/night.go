package engine

import (
	"fmt"
	"math"

	"github.com/talgya/last-orders/internal/economy"
	"github.com/talgya/last-orders/internal/events"
	"github.com/talgya/last-orders/internal/market"
	"github.com/talgya/last-orders/internal/resources"
)

// patronPool is the regular crowd size patron identities are drawn from.
// The pool bounds how many distinct covers a night can see.
const patronPool = 120

// ClosingRound is tonight's last round: the base plus whatever extra
// rounds owned upgrades grant (a late-night licence, mostly).
func (s *Simulation) ClosingRound() int {
	return s.bal.ClosingRoundBase + s.Security.ClosingRoundBonus()
}

// OpenNight opens the doors: resets the per-night counters, rolls the
// weather, and clears last night's bouncer hires.
func (s *Simulation) OpenNight() Outcome {
	if s.GameOver {
		return declined("The game is over.")
	}
	if s.NightOpen {
		return declined("Night already open.")
	}
	s.NightOpen = true
	s.Round = 0
	s.Served = map[string]bool{}
	s.NightCovers = 0
	s.Security.StartNight()
	s.Resources.StartNight()
	if s.bal.WeatherEnabled {
		s.Weather = market.RollWeather(s.rng)
		if s.Weather.MarshallRequired {
			s.StormNights++
		}
	} else {
		s.Weather = market.Weather{Kind: "clear", TrafficFactor: 1.0}
	}
	s.report(events.ToneInfo, fmt.Sprintf("Doors open. %s outside.", s.Weather.Kind))
	return accepted()
}

// PlayRound advances one round of service: patrons come through, money
// crosses the bar, an incident may land, and the round gets classified for
// the chaos streaks. When the round index passes the closing round the
// night shuts on its own.
func (s *Simulation) PlayRound() Outcome {
	if s.GameOver {
		return declined("The game is over.")
	}
	if !s.NightOpen {
		return declined("Night not open.")
	}
	s.Round++
	s.Stats.RoundsPlayed++

	served := s.serveRound()
	revenue := s.takeRevenue(served)
	hadIncident := s.rollIncident()

	verdict := resources.RoundNeutral
	switch {
	case hadIncident:
		verdict = resources.RoundBad
	case served >= s.expectedRoundTraffic():
		verdict = resources.RoundGood
	}
	s.Resources.ClassifyRound(verdict, resources.ChaosParams{
		BaseRise: s.bal.ChaosBaseRise,
		NegRamp:  s.bal.ChaosNegRamp,
		BaseFall: s.bal.ChaosBaseFall,
		PosRamp:  s.bal.ChaosPosRamp,
	})

	s.Security.TickRound()
	s.Actions.TickRound()

	s.logger.Debug("round played",
		"week", s.Week, "day", s.Day, "round", s.Round,
		"served", served, "revenue", revenue, "incident", hadIncident)

	if s.Round >= s.ClosingRound() {
		return s.CloseNight("last orders")
	}
	return accepted()
}

// serveRound draws tonight's patrons for one round and records unique
// covers. A regular coming back for another pint is served again but never
// counted twice.
func (s *Simulation) serveRound() int {
	expected := s.roundTraffic()
	count := int(expected)
	if s.rng.Float() < expected-math.Floor(expected) {
		count++
	}
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("patron-%03d", s.rng.IntN(patronPool))
		if !s.Served[id] {
			s.Served[id] = true
			s.NightCovers++
			s.TotalCovers++
		}
	}
	return count
}

// roundTraffic is the expected patron count for one round after every
// multiplier has had its say.
func (s *Simulation) roundTraffic() float64 {
	perRound := float64(s.bal.BaseNightTraffic) / 4.0
	repFactor := 1.0 + float64(s.Resources.Reputation)/200.0
	legacy := 1.0 + s.Progress.Legacy.TrafficMult
	return perRound *
		repFactor *
		s.Weather.TrafficFactor *
		s.Security.TrafficMultiplier() *
		s.Rumors.TrafficMultiplier() *
		s.WeekPressure *
		legacy
}

func (s *Simulation) expectedRoundTraffic() int {
	return int(math.Floor(float64(s.bal.BaseNightTraffic) / 4.0))
}

// takeRevenue converts served patrons into till money.
func (s *Simulation) takeRevenue(served int) float64 {
	if served <= 0 {
		return 0
	}
	spend := s.bal.AverageSpend * (1.0 + s.Rumors.WealthBias()) * (1.0 + s.Progress.Legacy.StaffEfficiency)
	revenue := float64(served) * spend
	s.Ledger.AddCash(revenue)
	s.Stats.TotalRevenue += revenue
	return revenue
}

// rollIncident decides whether this round goes wrong. Chaos feeds the base
// chance; the security composer's multipliers throttle both the chance and
// the loss.
func (s *Simulation) rollIncident() bool {
	chance := s.bal.BaseIncidentChance * s.Security.IncidentMultiplier() * (1.0 + s.Resources.Chaos/200.0)
	if s.Weather.MarshallRequired && s.Security.Marshalls == 0 {
		chance *= 1.25
	}
	if s.rng.Float() >= chance {
		return false
	}
	loss := s.bal.BaseIncidentLoss * s.Security.LossMultiplier() * (0.5 + s.rng.Float())
	if loss > s.Ledger.Cash {
		loss = s.Ledger.Cash
	}
	s.Ledger.Cash -= loss
	s.Stats.Incidents++
	s.Stats.TotalLosses += loss
	s.Resources.ApplyReputationDelta(-2, "incident")
	s.Resources.AdjustMorale(-2)
	s.Rumors.AddHeat("fight_night", 6)
	s.report(events.ToneNegative, fmt.Sprintf("Trouble on the floor costs %s.", economy.Money(loss)))
	return true
}

// earlyClosePenalty is the reputation hit for shutting with rounds still on
// the clock: nothing at the bell, otherwise two points per remaining round
// with a floor of three.
func (s *Simulation) earlyClosePenalty(roundsRemaining int) int {
	if roundsRemaining <= 0 {
		return 0
	}
	penalty := s.bal.EarlyCloseRepPerRound * roundsRemaining
	if penalty < s.bal.EarlyCloseRepFloor {
		penalty = s.bal.EarlyCloseRepFloor
	}
	return -penalty
}

// CloseNight shuts the doors, early or at the bell. On the seventh night
// of the week this also runs the week-end processing before the week-start
// callback fires.
func (s *Simulation) CloseNight(reason string) Outcome {
	if !s.NightOpen {
		return declined("Night not open.")
	}
	s.NightOpen = false
	s.Stats.NightsPlayed++

	remaining := s.ClosingRound() - s.Round
	if penalty := s.earlyClosePenalty(remaining); penalty != 0 {
		s.Resources.ApplyReputationDelta(penalty, "early close")
		s.report(events.ToneReputation, fmt.Sprintf("Closed early (%s). The regulars grumble.", reason))
	}

	if s.NightCovers > s.BestNightCovers {
		s.BestNightCovers = s.NightCovers
	}
	s.Resources.CoolChaos(s.bal.NightChaosCool)
	if s.NightCovers >= s.expectedRoundTraffic()*s.ClosingRound()/2 {
		s.Resources.AdjustMorale(1.5)
	} else {
		s.Resources.AdjustMorale(-1.0)
	}
	// The room's temper wears on the staff: active rumors nudge morale a
	// little each night in whichever direction they lean.
	if mood := s.Rumors.MoodBias(); mood != 0 {
		s.Resources.AdjustMorale(mood * 5.0)
	}

	s.logger.Info("night closed",
		"week", s.Week, "day", s.Day, "reason", reason,
		"covers", s.NightCovers, "cash", s.Ledger.Cash)

	if s.Day >= 7 {
		s.endWeek()
	} else {
		s.Day++
	}

	if s.Resources.RepCollapsed() {
		s.GameOver = true
		s.GameOverReason = "reputation collapse"
		s.report(events.ToneEvent, "Nobody will drink here anymore. Last orders.")
	}
	return accepted()
}
