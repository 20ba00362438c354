package progression

// Inputs is the cross-subsystem snapshot the milestone conditions read.
// The controller assembles it each evaluation; conditions never mutate it.
type Inputs struct {
	Week               int
	Cash               float64
	Reputation         int
	PeakReputation     int
	Chaos              float64
	Morale             float64
	Identity           float64
	TotalCovers        int
	BestNightCovers    int
	TotalRevenue       float64
	UpgradesOwned      int
	CreditLinesOpen    int
	TotalCreditBalance float64
	MissStreak         int
	TradeFullPayStreak int
	SharkCleared       bool
	WeeksDebtFree      int
	StormNights        int
	Stigma             bool
}

// Milestone pairs an identifier with its condition. Conditions are pure
// reads; granting is idempotent and handled by the state.
type Milestone struct {
	ID        string
	Name      string
	Condition func(in Inputs) bool
}

// Milestones is the fixed catalog. Order matters only for presentation.
var Milestones = []Milestone{
	{ID: "first_week", Name: "First week survived", Condition: func(in Inputs) bool {
		return in.Week >= 1
	}},
	{ID: "covers_100", Name: "A hundred served", Condition: func(in Inputs) bool {
		return in.TotalCovers >= 100
	}},
	{ID: "covers_500", Name: "Five hundred served", Condition: func(in Inputs) bool {
		return in.TotalCovers >= 500
	}},
	{ID: "covers_2000", Name: "Two thousand served", Condition: func(in Inputs) bool {
		return in.TotalCovers >= 2000
	}},
	{ID: "full_house", Name: "Full house", Condition: func(in Inputs) bool {
		return in.BestNightCovers >= 30
	}},
	{ID: "rep_25", Name: "A good name", Condition: func(in Inputs) bool {
		return in.PeakReputation >= 25
	}},
	{ID: "rep_50", Name: "Talk of the town", Condition: func(in Inputs) bool {
		return in.PeakReputation >= 50
	}},
	{ID: "rep_75", Name: "An institution", Condition: func(in Inputs) bool {
		return in.PeakReputation >= 75
	}},
	{ID: "cash_1000", Name: "A grand in the safe", Condition: func(in Inputs) bool {
		return in.Cash >= 1000
	}},
	{ID: "cash_5000", Name: "Five grand in the safe", Condition: func(in Inputs) bool {
		return in.Cash >= 5000
	}},
	{ID: "fitted_out", Name: "Fitted out", Condition: func(in Inputs) bool {
		return in.UpgradesOwned >= 3
	}},
	{ID: "bank_friend", Name: "Friends at the bank", Condition: func(in Inputs) bool {
		return in.CreditLinesOpen >= 1
	}},
	{ID: "shark_free", Name: "Square with the shark", Condition: func(in Inputs) bool {
		return in.SharkCleared
	}},
	{ID: "clean_month", Name: "A clean month", Condition: func(in Inputs) bool {
		return in.WeeksDebtFree >= 4
	}},
	{ID: "steady_hand", Name: "Steady hand", Condition: func(in Inputs) bool {
		return in.Chaos <= 10 && in.Reputation >= 30
	}},
	{ID: "quarter_in", Name: "A quarter in", Condition: func(in Inputs) bool {
		return in.Week >= 13
	}},
	{ID: "six_months", Name: "Six months behind the bar", Condition: func(in Inputs) bool {
		return in.Week >= 26
	}},
	{ID: "payroll_guardian", Name: "Payroll guardian", Condition: func(in Inputs) bool {
		return in.MissStreak == 0 && !in.Stigma
	}},
	{ID: "calm_house", Name: "Calm house", Condition: func(in Inputs) bool {
		return in.Chaos <= 5 && in.Morale >= 60
	}},
	{ID: "happy_crew", Name: "Happy crew", Condition: func(in Inputs) bool {
		return in.Morale >= 85
	}},
	{ID: "known_for_something", Name: "Known for something", Condition: func(in Inputs) bool {
		return in.Identity >= 3 || in.Identity <= -3
	}},
	{ID: "clean_credit", Name: "Bridge, don't bleed", Condition: func(in Inputs) bool {
		return in.CreditLinesOpen >= 1 && in.TotalCreditBalance == 0 && in.MissStreak == 0
	}},
	{ID: "debt_diet", Name: "Debt diet", Condition: func(in Inputs) bool {
		return in.WeeksDebtFree >= 3
	}},
	{ID: "suppliers_favourite", Name: "Supplier's favourite", Condition: func(in Inputs) bool {
		return in.TradeFullPayStreak >= 3
	}},
	{ID: "stormproof", Name: "Stormproof operator", Condition: func(in Inputs) bool {
		return in.StormNights >= 3 && in.Reputation > 0
	}},
	{ID: "headliner", Name: "Headliner venue", Condition: func(in Inputs) bool {
		return in.PeakReputation >= 90
	}},
	{ID: "packed_out", Name: "Packed out", Condition: func(in Inputs) bool {
		return in.BestNightCovers >= 60
	}},
	{ID: "till_10k", Name: "Ten grand through the till", Condition: func(in Inputs) bool {
		return in.TotalRevenue >= 10000
	}},
}

// Threshold returns the cumulative milestone count required to reach pub
// level n: threshold(0) = 0, threshold(n) = threshold(n-1) + (n+1), giving
// 2, 5, 9, 14, 20, 27 for levels 1 through 6.
func Threshold(n int) int {
	total := 0
	for i := 1; i <= n; i++ {
		total += i + 1
	}
	return total
}
