package economy

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/last-orders/internal/entropy"
)

// LenderKind distinguishes ordinary lenders from payday-style shark
// products, which carry a credit-score sting when drawn on.
type LenderKind string

const (
	LenderHighStreet  LenderKind = "high_street"
	LenderCreditUnion LenderKind = "credit_union"
	LenderPaydayShark LenderKind = "payday_shark"
)

// Bank is one row of the fixed lender catalog. Limits and APRs are rolled
// from the injected random stream when a line is opened.
type Bank struct {
	Name     string
	Kind     LenderKind
	LimitMin float64
	LimitMax float64
	APRMin   float64
	APRMax   float64
}

// Banks is the lender catalog. Looked up by name, never subclassed.
var Banks = []Bank{
	{Name: "Harrow & Finch", Kind: LenderHighStreet, LimitMin: 600, LimitMax: 1400, APRMin: 0.09, APRMax: 0.14},
	{Name: "Dockside Credit Union", Kind: LenderCreditUnion, LimitMin: 350, LimitMax: 800, APRMin: 0.06, APRMax: 0.10},
	{Name: "QuickQuid Row", Kind: LenderPaydayShark, LimitMin: 900, LimitMax: 2200, APRMin: 0.28, APRMax: 0.42},
}

// BankByName looks up a catalog entry.
func BankByName(name string) (Bank, bool) {
	for _, b := range Banks {
		if b.Name == name {
			return b, true
		}
	}
	return Bank{}, false
}

// CreditLine is one open revolving line.
type CreditLine struct {
	ID            string     `json:"id"`
	Lender        string     `json:"lender"`
	Kind          LenderKind `json:"kind"`
	Limit         float64    `json:"limit"`
	Balance       float64    `json:"balance"`
	APR           float64    `json:"apr"`
	WeeklyPayment float64    `json:"weekly_payment"`
	Enabled       bool       `json:"enabled"`
}

const (
	minWeeklyPayment = 25.0
	weeklyPaymentPct = 0.05
)

// Available returns limit minus balance, floored at zero.
func (c *CreditLine) Available() float64 {
	avail := c.Limit - c.Balance
	if avail < 0 {
		return 0
	}
	return avail
}

// Draw moves amount onto the balance. The balance must never exceed the
// limit; callers check Available first.
func (c *CreditLine) Draw(amount float64) {
	if amount <= 0 {
		return
	}
	c.Balance += amount
	if c.Balance > c.Limit {
		c.Balance = c.Limit
	}
	c.refreshWeeklyPayment()
}

// Repay reduces the balance, floored at zero.
func (c *CreditLine) Repay(amount float64) {
	if amount <= 0 {
		return
	}
	c.Balance -= amount
	if c.Balance < 0 {
		c.Balance = 0
	}
	c.refreshWeeklyPayment()
}

func (c *CreditLine) refreshWeeklyPayment() {
	if c.Balance <= 0 {
		c.WeeklyPayment = 0
		return
	}
	payment := c.Balance * weeklyPaymentPct
	if payment < minWeeklyPayment {
		payment = minWeeklyPayment
	}
	c.WeeklyPayment = payment
}

// Selector picks which qualifying line absorbs a shortfall. Every candidate
// already has enough available credit.
type Selector func(candidates []*CreditLine, shortfall float64) *CreditLine

// GreatestAvailable is the default tie-break: the line with the most
// headroom takes the draw.
func GreatestAvailable(candidates []*CreditLine, _ float64) *CreditLine {
	var best *CreditLine
	for _, line := range candidates {
		if best == nil || line.Available() > best.Available() {
			best = line
		}
	}
	return best
}

// OpenLine rolls limit and APR for a catalog bank and opens a line. At most
// one line per lender.
func (l *Ledger) OpenLine(bankName string) (*CreditLine, error) {
	bank, found := BankByName(bankName)
	if !found {
		return nil, fmt.Errorf("unknown bank %q", bankName)
	}
	for _, line := range l.Lines {
		if line.Lender == bank.Name {
			return nil, fmt.Errorf("line with %s already open", bank.Name)
		}
	}
	line := &CreditLine{
		ID:      uuid.NewString(),
		Lender:  bank.Name,
		Kind:    bank.Kind,
		Limit:   rollRange(l.rng, bank.LimitMin, bank.LimitMax),
		APR:     rollRange(l.rng, bank.APRMin, bank.APRMax),
		Enabled: true,
	}
	l.Lines = append(l.Lines, line)
	return line, nil
}

// LineByID finds an open line.
func (l *Ledger) LineByID(id string) *CreditLine {
	for _, line := range l.Lines {
		if line.ID == id {
			return line
		}
	}
	return nil
}

// TotalCreditBalance sums enabled line balances.
func (l *Ledger) TotalCreditBalance() float64 {
	total := 0.0
	for _, line := range l.Lines {
		if line.Enabled {
			total += line.Balance
		}
	}
	return total
}

// applyWeeklyLineInterest accrues APR/52 on carried balances, scaled by the
// debt-spiral interest multiplier.
func (l *Ledger) applyWeeklyLineInterest() {
	for _, line := range l.Lines {
		if !line.Enabled || line.Balance <= 0 {
			continue
		}
		interest := line.Balance * (line.APR / 52.0) * l.spiral().Interest
		line.Balance += interest
		if line.Balance > line.Limit {
			// Interest may push a maxed line past its limit; the excess is
			// carried as general debt instead.
			l.Debt += line.Balance - line.Limit
			line.Balance = line.Limit
		}
		line.refreshWeeklyPayment()
	}
}

func rollRange(rng entropy.Source, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float()*(hi-lo)
}
