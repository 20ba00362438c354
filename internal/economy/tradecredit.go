package economy

import (
	"fmt"
	"math"

	"github.com/talgya/last-orders/internal/config"
	"github.com/talgya/last-orders/internal/events"
)

// TradeCreditAccount is the running supplier tab. Carried balances accrue
// late fees which also ratchet up a penalty APR; the penalty only steps
// back down after a run of consecutive full, on-time payments whose length
// is set by the recovery-stage schedule in config.
type TradeCreditAccount struct {
	Balance             float64 `json:"balance"`
	PenaltyAPR          float64 `json:"penalty_apr"`
	ConsecutiveFullPays int     `json:"consecutive_full_pays"`
	RecoveryStage       int     `json:"recovery_stage"`
	WeekLateFees        float64 `json:"week_late_fees"`
	HardCap             float64 `json:"hard_cap"` // 0 means uncapped

	bal config.Balance
}

// NewTradeCreditAccount opens a clean supplier tab.
func NewTradeCreditAccount(bal config.Balance) *TradeCreditAccount {
	t := &TradeCreditAccount{}
	t.bind(bal)
	return t
}

func (t *TradeCreditAccount) bind(bal config.Balance) { t.bal = bal }

// Invoice adds a supplier purchase to the tab. A bankruptcy-imposed hard
// cap is absolute: purchases that would push the balance past it are
// declined regardless of supplier trust.
func (t *TradeCreditAccount) Invoice(amount float64) Outcome {
	if amount <= 0 {
		return Declined("Nothing to invoice.")
	}
	if t.HardCap > 0 && t.Balance+amount > t.HardCap {
		return Declined(fmt.Sprintf("Suppliers cap your tab at %s.", Money(t.HardCap)))
	}
	t.Balance += amount
	return Accepted()
}

// Pay reduces the tab, floored at zero.
func (t *TradeCreditAccount) Pay(amount float64) {
	if amount <= 0 {
		return
	}
	t.Balance -= amount
	if t.Balance < 0 {
		t.Balance = 0
	}
}

// EffectiveAPR is base plus the accumulated penalty.
func (t *TradeCreditAccount) EffectiveAPR() float64 {
	return t.bal.TradeCreditBaseAPR + t.PenaltyAPR
}

// recoveryPaysRequired returns the consecutive full pays needed to step the
// penalty down at the current recovery stage.
func (t *TradeCreditAccount) recoveryPaysRequired() int {
	stages := t.bal.TradeCreditRecoveryPays
	if len(stages) == 0 {
		return 2
	}
	if t.RecoveryStage >= len(stages) {
		return stages[len(stages)-1]
	}
	return stages[t.RecoveryStage]
}

// settleWeek runs the weekly trade-credit accrual. paidInFull reports
// whether the tab's minimum was fully covered this payday; spiral scales
// the late fee when the wider ledger is in a debt spiral. Returns the late
// fee charged (already added onto the balance).
func (t *TradeCreditAccount) settleWeek(paidInFull bool, spiral Spiral, emit events.Reporter) float64 {
	t.WeekLateFees = 0
	if t.Balance <= 0 {
		// Clean tab still counts toward recovery.
		t.noteFullPay(emit)
		return 0
	}
	if paidInFull {
		t.noteFullPay(emit)
		return 0
	}
	t.ConsecutiveFullPays = 0
	fee := t.Balance * (t.EffectiveAPR() / 52.0) * spiral.LateFee
	fee = math.Round(fee*100) / 100
	t.Balance += fee
	t.WeekLateFees = fee
	if t.PenaltyAPR < t.bal.TradeCreditPenaltyCap {
		t.PenaltyAPR += t.bal.TradeCreditPenaltyStep
		if t.PenaltyAPR > t.bal.TradeCreditPenaltyCap {
			t.PenaltyAPR = t.bal.TradeCreditPenaltyCap
		}
		t.RecoveryStage++
	}
	if emit != nil && fee > 0 {
		emit(events.ToneNegative, fmt.Sprintf("Supplier late fee: %s.", Money(fee)))
	}
	return fee
}

func (t *TradeCreditAccount) noteFullPay(emit events.Reporter) {
	t.ConsecutiveFullPays++
	if t.PenaltyAPR <= 0 {
		t.PenaltyAPR = 0
		t.ConsecutiveFullPays = 0
		t.RecoveryStage = 0
		return
	}
	if t.ConsecutiveFullPays >= t.recoveryPaysRequired() {
		t.PenaltyAPR -= t.bal.TradeCreditPenaltyStep
		if t.PenaltyAPR < 0 {
			t.PenaltyAPR = 0
		}
		if t.RecoveryStage > 0 {
			t.RecoveryStage--
		}
		t.ConsecutiveFullPays = 0
		if emit != nil {
			emit(events.TonePositive, "Suppliers are warming back up to you.")
		}
	}
}
