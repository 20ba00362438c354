package economy

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/last-orders/internal/events"
)

// BillType tags a payday bill for presentation and cost tracking.
type BillType string

const (
	BillSupplier   BillType = "supplier"
	BillWages      BillType = "wages"
	BillRent       BillType = "rent"
	BillSecurity   BillType = "security"
	BillInn        BillType = "inn"
	BillCreditLine BillType = "credit_line"
	BillLoanShark  BillType = "loan_shark"
	BillOther      BillType = "other"
)

// SourceCash is the default funding source for a payday bill. Any other
// SourceID names an open credit line to draw the payment from.
const SourceCash = "cash"

// PaydayBill is one due item in the week-end aggregation. Hosts may adjust
// Selected and SourceID between aggregation and resolution; they default to
// the minimum due, paid from cash.
type PaydayBill struct {
	ID         string   `json:"id"`
	Type       BillType `json:"type"`
	Name       string   `json:"name"`
	MinimumDue float64  `json:"minimum_due"`
	FullDue    float64  `json:"full_due"`
	Selected   float64  `json:"selected"`
	SourceID   string   `json:"source_id"`
	LineID     string   `json:"line_id,omitempty"`
}

// PaydayReport summarizes a week's resolution.
type PaydayReport struct {
	Bills            []*PaydayBill
	TotalPaid        float64
	MinimumsMet      bool
	MissStreak       int
	BailiffTriggered bool
	CashSeized       float64
	LateFee          float64
	ProtectionFee    float64
}

const (
	supplierMinPct   = 0.10
	supplierMinFloor = 20.0
	sharkMinPct      = 0.25
)

// BuildBills aggregates everything due this payday. securityLevel and
// innRooms come from the composer and progression state the ledger does
// not own.
func (l *Ledger) BuildBills(securityLevel, innRooms, currentWeek int) []*PaydayBill {
	var bills []*PaydayBill
	add := func(t BillType, name string, min, full float64) *PaydayBill {
		b := &PaydayBill{
			ID:         uuid.NewString(),
			Type:       t,
			Name:       name,
			MinimumDue: min,
			FullDue:    full,
			Selected:   min,
			SourceID:   SourceCash,
		}
		bills = append(bills, b)
		return b
	}

	if l.Trade.Balance > 0 {
		min := l.Trade.Balance * supplierMinPct
		if min < supplierMinFloor {
			min = supplierMinFloor
		}
		if min > l.Trade.Balance {
			min = l.Trade.Balance
		}
		add(BillSupplier, "Supplier tab", min, l.Trade.Balance)
	}
	add(BillWages, "Staff wages", l.bal.WeeklyWages, l.bal.WeeklyWages)
	add(BillRent, "Rent", l.bal.WeeklyRent, l.bal.WeeklyRent)
	if securityLevel > 0 {
		upkeep := l.bal.SecurityUpkeepPerLevel * float64(securityLevel)
		add(BillSecurity, "Security upkeep", upkeep, upkeep)
	}
	if innRooms > 0 {
		maint := l.bal.InnMaintenancePerRoom * float64(innRooms)
		add(BillInn, "Inn maintenance", maint, maint)
	}
	for _, line := range l.Lines {
		if line.Enabled && line.Balance > 0 {
			b := add(BillCreditLine, line.Lender, line.WeeklyPayment, line.Balance)
			b.LineID = line.ID
		}
	}
	if l.Shark.Active {
		owed := l.Shark.Owed(currentWeek)
		add(BillLoanShark, "Loan shark", owed*sharkMinPct, owed)
	}
	return bills
}

// ResolvePayday pays each bill's selected amount from its selected source,
// applies the weekly accruals, and runs enforcement. Unmet minimums extend
// the miss streak; enough consecutive misses bring the bailiffs (cash
// seizure and stigma here; upgrade removal and the reputation scar belong
// to the caller, which owns those subsystems).
func (l *Ledger) ResolvePayday(bills []*PaydayBill, currentWeek int) PaydayReport {
	report := PaydayReport{Bills: bills, MinimumsMet: true}
	supplierPaidFull := true
	for _, bill := range bills {
		amount := bill.Selected
		if amount > bill.FullDue {
			amount = bill.FullDue
		}
		if amount < 0 {
			amount = 0
		}
		paid := l.fundBill(bill, amount)
		if paid > 0 {
			l.recordCost(string(bill.Type), paid)
			report.TotalPaid += paid
		}
		l.applyBillPayment(bill, paid, currentWeek)
		if paid < bill.MinimumDue {
			report.MinimumsMet = false
		}
		if bill.Type == BillSupplier && paid < bill.FullDue {
			supplierPaidFull = false
		}
	}

	if report.MinimumsMet {
		l.MissStreak = 0
		l.AdjustCreditScore(5)
	} else {
		l.MissStreak++
		l.AdjustCreditScore(-15)
		l.emit(events.ToneNegative, "You could not meet this week's minimums.")
	}
	report.MissStreak = l.MissStreak

	report.LateFee = l.Trade.settleWeek(supplierPaidFull, l.spiral(), l.emit)
	l.applyWeeklyLineInterest()
	report.ProtectionFee = l.settleProtection()

	if l.bal.BailiffsEnabled && l.MissStreak >= l.bal.BailiffMissStreak {
		report.BailiffTriggered = true
		report.CashSeized = l.bailiffSeizure()
		l.MissStreak = 0
	}
	l.WeekRevenue = 0
	return report
}

// fundBill draws a bill's payment from its selected source: cash by
// default, or an enabled credit line's available headroom. A line-sourced
// bill never falls back to cash.
func (l *Ledger) fundBill(bill *PaydayBill, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	if bill.SourceID == "" || bill.SourceID == SourceCash {
		paid := amount
		if paid > l.Cash {
			paid = l.Cash
		}
		l.Cash -= paid
		return paid
	}
	line := l.LineByID(bill.SourceID)
	if line == nil || !line.Enabled {
		return 0
	}
	paid := amount
	if avail := line.Available(); paid > avail {
		paid = avail
	}
	line.Draw(paid)
	return paid
}

func (l *Ledger) applyBillPayment(bill *PaydayBill, paid float64, currentWeek int) {
	switch bill.Type {
	case BillSupplier:
		l.Trade.Pay(paid)
	case BillCreditLine:
		if line := l.LineByID(bill.LineID); line != nil {
			line.Repay(paid)
		}
	case BillLoanShark:
		if !l.Shark.Active {
			return
		}
		if paid >= bill.FullDue {
			rate := InterestRate(currentWeek - l.Shark.BorrowWeek)
			if l.Debt >= l.Shark.Principal {
				l.Debt -= l.Shark.Principal
			} else {
				l.Debt = 0
			}
			l.Shark.Active = false
			l.Shark.Principal = 0
			l.noteSharkFullPay(rate)
			return
		}
		// Partial payments chip at the principal; interest re-accrues on
		// what remains.
		l.Shark.Principal -= paid
		if l.Shark.Principal < 0 {
			l.Shark.Principal = 0
			l.Shark.Active = false
		}
		if l.Debt >= paid {
			l.Debt -= paid
		} else {
			l.Debt = 0
		}
	}
}

// bailiffSeizure takes the larger of the flat amount and the percentage of
// cash on hand, and sets the permanent stigma flag.
func (l *Ledger) bailiffSeizure() float64 {
	seize := l.bal.BailiffCashSeizeFlat
	if pct := l.Cash * l.bal.BailiffCashSeizePct; pct > seize {
		seize = pct
	}
	if seize > l.Cash {
		seize = l.Cash
	}
	l.Cash -= seize
	l.Stigma = true
	l.emit(events.ToneNegative, fmt.Sprintf("Bailiffs at the door. They take %s and your name goes on a list.", Money(seize)))
	return seize
}

// DeclareBankruptcy wipes the debt side of the book. Cash stays; the
// supplier tab is hard-capped from here on. Upgrade, level, and star resets
// belong to the caller.
func (l *Ledger) DeclareBankruptcy() {
	l.Debt = 0
	l.Lines = nil
	l.Shark = &LoanSharkAccount{}
	l.MissStreak = 0
	l.Trade.Balance = 0
	l.Trade.PenaltyAPR = 0
	l.Trade.ConsecutiveFullPays = 0
	l.Trade.RecoveryStage = 0
	l.Trade.WeekLateFees = 0
	l.Trade.HardCap = l.bal.BankruptcyTradeCreditCap
	l.AdjustCreditScore(-150)
	l.emit(events.ToneEvent, "Bankruptcy declared. The slate is wiped, but suppliers will never trust you the same.")
}
