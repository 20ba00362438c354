// Package economy implements the money side of the simulation: cash,
// revolving credit lines, supplier trade credit, the loan shark, weekly
// payday bills and their enforcement. The ledger is mutated only by the
// orchestrating controller; nothing here spawns work or blocks.
package economy

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/talgya/last-orders/internal/config"
	"github.com/talgya/last-orders/internal/entropy"
	"github.com/talgya/last-orders/internal/events"
)

// Outcome reports a business-rule result. Declines are values, not errors.
type Outcome struct {
	OK     bool
	Reason string
}

// Accepted is the success outcome.
func Accepted() Outcome { return Outcome{OK: true} }

// Declined carries the human-readable reason for a rejection.
func Declined(reason string) Outcome { return Outcome{Reason: reason} }

const (
	creditScoreStart  = 600
	creditScoreMin    = 0
	creditScoreMax    = 850
	sharkDrawScoreHit = -10
)

// Ledger is the single money book. Exported fields round-trip through the
// snapshot; collaborators are rebound after restore via Bind.
type Ledger struct {
	Cash        float64             `json:"cash"`
	Debt        float64             `json:"debt"`
	CreditScore int                 `json:"credit_score"`
	Lines       []*CreditLine       `json:"lines"`
	Trade       *TradeCreditAccount `json:"trade"`
	Shark       *LoanSharkAccount   `json:"shark"`
	Stigma      bool                `json:"stigma"`
	MissStreak  int                 `json:"miss_streak"`
	CostsByTag  map[string]float64  `json:"costs_by_tag"`
	WeekRevenue float64             `json:"week_revenue"`

	bal      config.Balance
	rng      entropy.Source
	emit     events.Reporter
	selector Selector
}

// NewLedger opens the book with starting cash.
func NewLedger(cash float64, bal config.Balance, rng entropy.Source, emit events.Reporter) *Ledger {
	l := &Ledger{
		Cash:        cash,
		CreditScore: creditScoreStart,
		Trade:       NewTradeCreditAccount(bal),
		Shark:       &LoanSharkAccount{},
		CostsByTag:  map[string]float64{},
	}
	l.Bind(bal, rng, emit, nil)
	return l
}

// Bind attaches the runtime collaborators. Called at construction and again
// after a snapshot restore. A nil selector falls back to GreatestAvailable.
func (l *Ledger) Bind(bal config.Balance, rng entropy.Source, emit events.Reporter, selector Selector) {
	l.bal = bal
	l.rng = rng
	l.emit = emit
	l.selector = selector
	if l.selector == nil {
		l.selector = GreatestAvailable
	}
	if l.emit == nil {
		l.emit = func(events.Tone, string) {}
	}
	if l.CostsByTag == nil {
		l.CostsByTag = map[string]float64{}
	}
	if l.Trade == nil {
		l.Trade = NewTradeCreditAccount(bal)
	}
	l.Trade.bind(bal)
	if l.Shark == nil {
		l.Shark = &LoanSharkAccount{}
	}
}

// TryPay debits cash, falling back to one enabled credit line when cash
// alone cannot cover the amount. On a decline no state changes.
func (l *Ledger) TryPay(amount float64, tag string) Outcome {
	if amount <= 0 {
		return Accepted()
	}
	if l.Cash >= amount {
		l.Cash -= amount
		l.recordCost(tag, amount)
		return Accepted()
	}
	shortfall := amount - l.Cash
	var candidates []*CreditLine
	for _, line := range l.Lines {
		if line.Enabled && line.Available() >= shortfall {
			candidates = append(candidates, line)
		}
	}
	if len(candidates) == 0 {
		return Declined("Insufficient cash.")
	}
	line := l.selector(candidates, shortfall)
	if line == nil {
		return Declined("Insufficient cash.")
	}
	line.Draw(shortfall)
	l.Cash = 0
	l.recordCost(tag, amount)
	if line.Kind == LenderPaydayShark {
		l.AdjustCreditScore(sharkDrawScoreHit)
		l.emit(events.ToneNegative, fmt.Sprintf("Covered %s on the %s line. Word gets around.", Money(shortfall), line.Lender))
	} else {
		l.emit(events.ToneMoney, fmt.Sprintf("Covered %s on the %s line.", Money(shortfall), line.Lender))
	}
	return Accepted()
}

// PayCashOnly is the variant for security purchases, which are never
// financeable: base security increases and bouncer hires fail outright on
// insufficient cash with no credit fallback.
func (l *Ledger) PayCashOnly(amount float64, tag string) Outcome {
	if amount <= 0 {
		return Accepted()
	}
	if l.Cash < amount {
		return Declined("Insufficient cash.")
	}
	l.Cash -= amount
	l.recordCost(tag, amount)
	return Accepted()
}

// AddCash credits takings.
func (l *Ledger) AddCash(amount float64) {
	if amount <= 0 {
		return
	}
	l.Cash += amount
	l.WeekRevenue += amount
}

// AdjustCreditScore nudges the score within its band.
func (l *Ledger) AdjustCreditScore(delta int) {
	l.CreditScore += delta
	if l.CreditScore < creditScoreMin {
		l.CreditScore = creditScoreMin
	}
	if l.CreditScore > creditScoreMax {
		l.CreditScore = creditScoreMax
	}
}

func (l *Ledger) recordCost(tag string, amount float64) {
	l.CostsByTag[tag] += amount
}

// SpiralTier is the debt-spiral severity derived from consecutive weeks of
// unpaid minimums, capped at the deepest tier.
func (l *Ledger) SpiralTier() int {
	tier := l.MissStreak
	if tier > len(spiralInterest)-1 {
		tier = len(spiralInterest) - 1
	}
	return tier
}

// Debt-spiral tier tables. Indexed by SpiralTier; tier 0 is neutral.
var (
	spiralNegBias  = []float64{1.00, 1.10, 1.22, 1.35, 1.52}
	spiralPosBias  = []float64{1.00, 0.95, 0.86, 0.76, 0.65}
	spiralInterest = []float64{1.00, 1.12, 1.22, 1.35, 1.50}
	spiralLateFee  = []float64{1.00, 1.10, 1.25, 1.45, 1.65}
)

// Spiral bundles the tier multipliers applied elsewhere: the reputation
// bias pair feeds the resource model, interest and late-fee scale the
// weekly accruals here.
type Spiral struct {
	NegBias  float64
	PosBias  float64
	Interest float64
	LateFee  float64
}

func (l *Ledger) spiral() Spiral {
	t := l.SpiralTier()
	return Spiral{
		NegBias:  spiralNegBias[t],
		PosBias:  spiralPosBias[t],
		Interest: spiralInterest[t],
		LateFee:  spiralLateFee[t],
	}
}

// CurrentSpiral exposes the active tier multipliers.
func (l *Ledger) CurrentSpiral() Spiral { return l.spiral() }

// Money formats an amount for event text.
func Money(amount float64) string {
	return "£" + humanize.CommafWithDigits(amount, 2)
}
