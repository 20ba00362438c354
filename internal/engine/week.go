package engine

import (
	"fmt"
	"strings"

	"github.com/talgya/last-orders/internal/economy"
	"github.com/talgya/last-orders/internal/events"
	"github.com/talgya/last-orders/internal/progression"
)

// endWeek runs the week boundary in a fixed order: payday resolution,
// progression evaluation, rumor decay, counter resets, then the week-start
// callback for the new week.
func (s *Simulation) endWeek() {
	report := s.resolvePayday()
	if report.BailiffTriggered {
		s.applyBailiff(report)
	}

	s.Progress.EvaluateMilestones(s.milestoneInputs())
	s.Progress.EvaluateWeek()

	s.Rumors.WeekUpdate(s.Resources.Morale, s.Security.EffectiveSecurity(), s.WeekNegativeEvents)

	s.refreshBiases()
	s.trackDebtFree()

	s.logger.Info("week closed",
		"week", s.Week, "cash", s.Ledger.Cash,
		"reputation", s.Resources.Reputation,
		"pub_level", s.Progress.PubLevel,
		"miss_streak", s.Ledger.MissStreak)

	s.Week++
	s.Day = 1
	s.WeekNegativeEvents = 0
	s.Resources.StartWeek()
	s.WeekPressure = s.pressureForWeek(s.Week)
	s.fireWeekStart(s.Week)
}

// resolvePayday aggregates this week's bills and settles them. The payday
// hook runs between aggregation and resolution so hosts can raise
// selections or route bills onto a credit line; without it every bill pays
// its minimum from cash.
func (s *Simulation) resolvePayday() economy.PaydayReport {
	sharkWasActive := s.Ledger.Shark.Active
	bills := s.Ledger.BuildBills(s.Security.EffectiveSecurity(), s.Progress.InnRooms, s.Week)
	if s.payday != nil {
		s.payday(bills)
	}
	report := s.Ledger.ResolvePayday(bills, s.Week)
	s.report(events.ToneMoney, fmt.Sprintf("Payday settled: %s out the door.", economy.Money(report.TotalPaid)))
	if sharkWasActive && !s.Ledger.Shark.Active {
		s.SharkEverCleared = true
	}
	return report
}

// applyBailiff carries out the parts of a bailiff visit the ledger cannot:
// stripping upgrades and scarring reputation. The cash seizure and stigma
// flag were already applied during resolution.
func (s *Simulation) applyBailiff(report economy.PaydayReport) {
	removed := s.Security.RemoveCheapestUpgrades(s.bal.BailiffUpgradesRemoved)
	if len(removed) > 0 {
		s.report(events.ToneNegative, fmt.Sprintf("The bailiffs cart off: %s.", strings.Join(removed, ", ")))
	}
	s.Resources.ApplyReputationDelta(s.bal.BailiffRepScar, "bailiffs")
	s.Rumors.AddHeat("shark_money", 15)
}

// milestoneInputs assembles the cross-subsystem snapshot the milestone
// conditions read.
func (s *Simulation) milestoneInputs() progression.Inputs {
	return progression.Inputs{
		Week:               s.Week,
		Cash:               s.Ledger.Cash,
		Reputation:         s.Resources.Reputation,
		PeakReputation:     s.Resources.PeakReputation,
		Chaos:              s.Resources.Chaos,
		Morale:             s.Resources.Morale,
		Identity:           s.Actions.Identity,
		TotalCovers:        s.TotalCovers,
		BestNightCovers:    s.BestNightCovers,
		TotalRevenue:       s.Stats.TotalRevenue,
		UpgradesOwned:      len(s.Security.Owned),
		CreditLinesOpen:    len(s.Ledger.Lines),
		TotalCreditBalance: s.Ledger.TotalCreditBalance(),
		MissStreak:         s.Ledger.MissStreak,
		TradeFullPayStreak: s.Ledger.Trade.ConsecutiveFullPays,
		SharkCleared:       s.SharkEverCleared,
		WeeksDebtFree:      s.WeeksDebtFree,
		StormNights:        s.StormNights,
		Stigma:             s.Ledger.Stigma,
	}
}

// refreshBiases pushes the cross-subsystem scaling factors into the
// resource model: the pub-level reputation multiplier and the debt-spiral
// asymmetry.
func (s *Simulation) refreshBiases() {
	spiral := s.Ledger.CurrentSpiral()
	s.Resources.LevelRepMultiplier = s.Progress.RepMultiplier()
	s.Resources.NegativeBias = spiral.NegBias
	s.Resources.PositiveBias = spiral.PosBias
}

func (s *Simulation) trackDebtFree() {
	if s.Ledger.Debt == 0 && s.Ledger.TotalCreditBalance() == 0 &&
		s.Ledger.Trade.Balance == 0 && !s.Ledger.Shark.Active {
		s.WeeksDebtFree++
	} else {
		s.WeeksDebtFree = 0
	}
}

// fireWeekStart invokes the host's week-start callback exactly once per
// distinct week transition, no matter how many times the host triggers
// processing around the boundary.
func (s *Simulation) fireWeekStart(week int) {
	if week <= s.LastWeekFired {
		return
	}
	s.LastWeekFired = week
	if s.weekStart != nil {
		s.weekStart(week)
	}
}
