package economy

import (
	"fmt"

	"github.com/talgya/last-orders/internal/events"
)

const (
	sharkLimitFloor   = 300.0
	sharkLimitCeiling = 8000.0
	sharkLimitBase    = 800.0

	sharkRateCheap = 0.05
	sharkRateMid   = 0.10
	sharkRateLate  = 0.20

	// Paying the cheap rate this many times in a row annoys the shark,
	// who then puts the pub under his protection for a stretch of paydays.
	cheapStreakAnnoyance = 5
	protectionWeeks      = 4
	protectionFeePct     = 0.05
	protectionFeeFloor   = 10.0
)

// LoanSharkAccount tracks the single permitted loan from the local shark.
// At most one loan is active at a time; the protection counter tracks
// reports remaining on a bought-off racket.
type LoanSharkAccount struct {
	Active                     bool    `json:"active"`
	Principal                  float64 `json:"principal"`
	BorrowWeek                 int     `json:"borrow_week"`
	CheapPayStreak             int     `json:"cheap_pay_streak"`
	ProtectionReportsRemaining int     `json:"protection_reports_remaining"`
}

// BorrowLimit scales with reputation: good standing raises it, bad standing
// drags it down, bounded to [300, 8000].
func BorrowLimit(reputation int) float64 {
	pos := 0
	neg := 0
	if reputation > 0 {
		pos = reputation
	} else {
		neg = -reputation
	}
	limit := sharkLimitBase + 20.0*float64(pos) - 5.0*float64(neg)
	if limit < sharkLimitFloor {
		return sharkLimitFloor
	}
	if limit > sharkLimitCeiling {
		return sharkLimitCeiling
	}
	return limit
}

// InterestRate for a loan paid after the given number of elapsed report
// weeks: cheap within the first week, steep after three.
func InterestRate(elapsedReportWeeks int) float64 {
	switch {
	case elapsedReportWeeks <= 1:
		return sharkRateCheap
	case elapsedReportWeeks <= 3:
		return sharkRateMid
	default:
		return sharkRateLate
	}
}

// Owed returns principal plus interest as of the given week.
func (a *LoanSharkAccount) Owed(currentWeek int) float64 {
	if !a.Active {
		return 0
	}
	rate := InterestRate(currentWeek - a.BorrowWeek)
	return a.Principal * (1.0 + rate)
}

// BorrowFromShark takes out a loan against the reputation-scaled limit.
// Only one loan may be active.
func (l *Ledger) BorrowFromShark(amount float64, reputation, currentWeek int) Outcome {
	if l.Shark.Active {
		return Declined("Already in debt to the shark.")
	}
	if amount <= 0 {
		return Declined("Nothing to borrow.")
	}
	limit := BorrowLimit(reputation)
	if amount > limit {
		return Declined(fmt.Sprintf("The shark will only front %s.", Money(limit)))
	}
	l.Shark.Active = true
	l.Shark.Principal = amount
	l.Shark.BorrowWeek = currentWeek
	l.Cash += amount
	l.Debt += amount
	l.emit(events.ToneMoney, fmt.Sprintf("Borrowed %s from the loan shark.", Money(amount)))
	return Accepted()
}

// PayShark clears the loan in full, cash only. Clearing at the cheap rate
// extends the cheap-pay streak; the shark's patience runs out once that
// streak reaches five.
func (l *Ledger) PayShark(currentWeek int) Outcome {
	if !l.Shark.Active {
		return Declined("No loan to pay.")
	}
	owed := l.Shark.Owed(currentWeek)
	if l.Cash < owed {
		return Declined("Insufficient cash.")
	}
	rate := InterestRate(currentWeek - l.Shark.BorrowWeek)
	l.Cash -= owed
	l.recordCost("loan_shark", owed)
	if l.Debt >= l.Shark.Principal {
		l.Debt -= l.Shark.Principal
	} else {
		l.Debt = 0
	}
	l.Shark.Active = false
	l.Shark.Principal = 0
	l.emit(events.ToneMoney, fmt.Sprintf("Paid the shark %s in full.", Money(owed)))
	l.noteSharkFullPay(rate)
	return Accepted()
}

// noteSharkFullPay extends or resets the cheap-pay streak after a loan is
// cleared. Enough cheap clearances in a row start the protection racket.
func (l *Ledger) noteSharkFullPay(rate float64) {
	if rate == sharkRateCheap {
		l.Shark.CheapPayStreak++
	} else {
		l.Shark.CheapPayStreak = 0
	}
	if l.Shark.CheapPayStreak >= cheapStreakAnnoyance {
		l.Shark.CheapPayStreak = 0
		l.Shark.ProtectionReportsRemaining = protectionWeeks
		l.emit(events.ToneNegative, "The shark is tired of lending you free money. His boys will be round to collect.")
	}
}

// UnderProtection reports whether the shark's racket still has collections
// left to run.
func (l *Ledger) UnderProtection() bool {
	return l.Shark.ProtectionReportsRemaining > 0
}

// settleProtection charges one week's protection fee while the racket runs:
// a cut of the week's takings with a floor, collected whether or not the
// cash is there. The shortfall goes on the book as debt.
func (l *Ledger) settleProtection() float64 {
	if !l.UnderProtection() {
		return 0
	}
	fee := l.WeekRevenue * protectionFeePct
	if fee < protectionFeeFloor {
		fee = protectionFeeFloor
	}
	fromCash := fee
	if fromCash > l.Cash {
		fromCash = l.Cash
	}
	l.Cash -= fromCash
	if fee > fromCash {
		l.Debt += fee - fromCash
	}
	l.recordCost("protection", fee)
	l.Shark.ProtectionReportsRemaining--
	l.emit(events.ToneNegative, fmt.Sprintf("The shark's boys collect %s in protection.", Money(fee)))
	return fee
}
