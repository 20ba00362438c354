package engine

import (
	"fmt"

	"github.com/talgya/last-orders/internal/economy"
	"github.com/talgya/last-orders/internal/events"
)

// TryPay debits cash with credit-line fallback. Declines leave state
// untouched.
func (s *Simulation) TryPay(amount float64, tag string) Outcome {
	out := s.Ledger.TryPay(amount, tag)
	return Outcome(out)
}

// OpenCreditLine opens a revolving line with a catalog bank, rolling its
// limit and APR from the game's random stream.
func (s *Simulation) OpenCreditLine(bank string) Outcome {
	line, err := s.Ledger.OpenLine(bank)
	if err != nil {
		return declined(err.Error())
	}
	s.report(events.ToneMoney, fmt.Sprintf("Opened a line with %s: %s at %.0f%% APR.",
		line.Lender, economy.Money(line.Limit), line.APR*100))
	return accepted()
}

// BorrowFromShark takes a loan against the reputation-scaled limit.
func (s *Simulation) BorrowFromShark(amount float64) Outcome {
	return Outcome(s.Ledger.BorrowFromShark(amount, s.Resources.Reputation, s.Week))
}

// PayShark clears the loan in full.
func (s *Simulation) PayShark() Outcome {
	out := s.Ledger.PayShark(s.Week)
	if out.OK {
		s.SharkEverCleared = true
	}
	return Outcome(out)
}

// ResolveSecurityTask starts a task for the current round, subject to its
// prerequisites, the one-per-round lock, and its cooldown.
func (s *Simulation) ResolveSecurityTask(id string) Outcome {
	if !s.NightOpen {
		return declined("Night not open.")
	}
	return Outcome(s.Security.ResolveTask(id, s.absoluteRound(), s.Ledger))
}

// ResolveLandlordAction runs a landlord action for the current round and
// applies its outcome to the resource model.
func (s *Simulation) ResolveLandlordAction(id string) Outcome {
	if !s.NightOpen {
		return declined("Night not open.")
	}
	res := s.Actions.Resolve(id, s.absoluteRound(), s.Ledger)
	if !res.Outcome.OK {
		return Outcome(res.Outcome)
	}
	if res.RepDelta != 0 {
		s.Resources.ApplyReputationDelta(res.RepDelta, "landlord action")
	}
	if res.ChaosDelta != 0 {
		s.Resources.AdjustChaos(res.ChaosDelta)
	}
	tone := events.TonePositive
	if !res.Success {
		tone = events.ToneNegative
	}
	s.report(tone, res.Text)
	return accepted()
}

// BuySecurityUpgrade purchases a catalog upgrade tier, cash only.
func (s *Simulation) BuySecurityUpgrade(id string) Outcome {
	return Outcome(s.Security.BuyUpgrade(id, s.Ledger))
}

// RaiseSecurityLevel bumps the base security level, cash only.
func (s *Simulation) RaiseSecurityLevel() Outcome {
	return Outcome(s.Security.RaiseBaseLevel(s.Ledger))
}

// HireBouncer adds a bouncer to tonight's door, cash only.
func (s *Simulation) HireBouncer() Outcome {
	if !s.NightOpen {
		return declined("Night not open.")
	}
	return Outcome(s.Security.HireBouncer(s.Ledger))
}

// EngageMarshall retains a standing marshall, cash only.
func (s *Simulation) EngageMarshall() Outcome {
	return Outcome(s.Security.EngageMarshall(s.Ledger))
}

// SetDoorPolicy switches the door stance.
func (s *Simulation) SetDoorPolicy(id string) Outcome {
	return Outcome(s.Security.SetDoorPolicy(id))
}

// OrderStock puts a supplier order on trade credit, subject to any
// bankruptcy cap.
func (s *Simulation) OrderStock(amount float64) Outcome {
	return Outcome(s.Ledger.Trade.Invoice(amount))
}

// ConfirmPrestige performs the prestige reset: progression resets and
// banks legacy, the bought security posture is cleared, cash and the
// social scalars stay.
func (s *Simulation) ConfirmPrestige() Outcome {
	out := s.Progress.ConfirmPrestige()
	if !out.OK {
		return declined(out.Reason)
	}
	s.Security.ResetForPrestige()
	s.refreshBiases()
	return accepted()
}

// DeclareBankruptcy is the deliberate reset: debts wiped, trade credit
// hard-capped, upgrades, level, and stars gone.
func (s *Simulation) DeclareBankruptcy() Outcome {
	if s.GameOver {
		return declined("The game is over.")
	}
	s.Ledger.DeclareBankruptcy()
	s.Progress.ResetForBankruptcy()
	s.Security.ResetForPrestige()
	s.refreshBiases()
	return accepted()
}

// absoluteRound gives each round of the game a distinct index so the
// one-action-per-round locks never collide across nights.
func (s *Simulation) absoluteRound() int {
	return ((s.Week-1)*7+(s.Day-1))*1000 + s.Round
}
