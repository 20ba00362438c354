// Package config holds gameplay balance tables and runner settings.
// Balance values are plain data passed into the simulation at construction;
// nothing in here is a mutable global.
package config

// Balance holds the tunables the simulation core reads. Presets below give
// the shipped difficulty bands; hosts may tweak individual fields before
// constructing a simulation.
type Balance struct {
	// Night cycle
	ClosingRoundBase      int     `json:"closing_round_base"`
	EarlyCloseRepPerRound int     `json:"early_close_rep_per_round"`
	EarlyCloseRepFloor    int     `json:"early_close_rep_floor"`
	BaseNightTraffic      int     `json:"base_night_traffic"`
	AverageSpend          float64 `json:"average_spend"`

	// Chaos streak amplification
	ChaosBaseRise  float64 `json:"chaos_base_rise"`
	ChaosNegRamp   float64 `json:"chaos_neg_ramp"`
	ChaosBaseFall  float64 `json:"chaos_base_fall"`
	ChaosPosRamp   float64 `json:"chaos_pos_ramp"`
	NightChaosCool float64 `json:"night_chaos_cool"`

	// Weekly costs
	WeeklyRent             float64 `json:"weekly_rent"`
	SecurityUpkeepPerLevel float64 `json:"security_upkeep_per_level"`
	WeeklyWages            float64 `json:"weekly_wages"`
	InnMaintenancePerRoom  float64 `json:"inn_maintenance_per_room"`

	// Cooldown/use scaling
	CooldownUseStep float64 `json:"cooldown_use_step"`
	CooldownUseCap  float64 `json:"cooldown_use_cap"`

	// Progression: weeks required at level L before advancing to L+1.
	// Index by target level (1-based). Kept as data, not a formula.
	WeeksRequiredByTarget []int     `json:"weeks_required_by_target"`
	MaxLevel              int       `json:"max_level"`
	MaxStars              int       `json:"max_stars"`
	StarFactors           []float64 `json:"star_factors"`

	// Trade credit
	TradeCreditBaseAPR       float64 `json:"trade_credit_base_apr"`
	TradeCreditPenaltyStep   float64 `json:"trade_credit_penalty_step"`
	TradeCreditPenaltyCap    float64 `json:"trade_credit_penalty_cap"`
	TradeCreditRecoveryPays  []int   `json:"trade_credit_recovery_pays"`
	BankruptcyTradeCreditCap float64 `json:"bankruptcy_trade_credit_cap"`

	// Payday enforcement
	BailiffMissStreak      int     `json:"bailiff_miss_streak"`
	BailiffUpgradesRemoved int     `json:"bailiff_upgrades_removed"`
	BailiffCashSeizeFlat   float64 `json:"bailiff_cash_seize_flat"`
	BailiffCashSeizePct    float64 `json:"bailiff_cash_seize_pct"`
	BailiffRepScar         int     `json:"bailiff_rep_scar"`

	// Incidents
	BaseIncidentChance float64 `json:"base_incident_chance"`
	BaseIncidentLoss   float64 `json:"base_incident_loss"`

	// Feature toggles
	WeatherEnabled        bool `json:"weather_enabled"`
	MarketPressureEnabled bool `json:"market_pressure_enabled"`
	BailiffsEnabled       bool `json:"bailiffs_enabled"`
}

// Default returns the shipped balance.
func Default() Balance {
	return Balance{
		ClosingRoundBase:      20,
		EarlyCloseRepPerRound: 2,
		EarlyCloseRepFloor:    3,
		BaseNightTraffic:      14,
		AverageSpend:          7.5,

		ChaosBaseRise:  1.6,
		ChaosNegRamp:   0.8,
		ChaosBaseFall:  1.2,
		ChaosPosRamp:   0.6,
		NightChaosCool: 2.0,

		WeeklyRent:             420.0,
		SecurityUpkeepPerLevel: 1.575,
		WeeklyWages:            260.0,
		InnMaintenancePerRoom:  6.0,

		CooldownUseStep: 0.1,
		CooldownUseCap:  1.0,

		WeeksRequiredByTarget: []int{0, 2, 3, 4, 5, 6},
		MaxLevel:              5,
		MaxStars:              5,
		StarFactors:           []float64{1.00, 0.70, 0.50, 0.35, 0.25},

		TradeCreditBaseAPR:       0.10,
		TradeCreditPenaltyStep:   0.02,
		TradeCreditPenaltyCap:    0.20,
		TradeCreditRecoveryPays:  []int{2, 3, 4},
		BankruptcyTradeCreditCap: 400.0,

		BailiffMissStreak:      4,
		BailiffUpgradesRemoved: 2,
		BailiffCashSeizeFlat:   40.0,
		BailiffCashSeizePct:    0.10,
		BailiffRepScar:         -8,

		BaseIncidentChance: 0.18,
		BaseIncidentLoss:   24.0,

		WeatherEnabled:        true,
		MarketPressureEnabled: true,
		BailiffsEnabled:       true,
	}
}

// Harsh returns a punishing preset for experienced players.
func Harsh() Balance {
	b := Default()
	b.BaseIncidentChance = 0.24
	b.BaseIncidentLoss = 32.0
	b.WeeklyRent = 480.0
	b.ChaosBaseRise = 2.0
	b.BailiffCashSeizePct = 0.15
	return b
}

// WeeksRequired returns the weeks a pub must hold its current level before
// advancing to targetLevel. Targets beyond the table fall back to the last
// entry plus one per extra level.
func (b Balance) WeeksRequired(targetLevel int) int {
	if targetLevel <= 0 {
		return 0
	}
	if targetLevel < len(b.WeeksRequiredByTarget) {
		return b.WeeksRequiredByTarget[targetLevel]
	}
	last := len(b.WeeksRequiredByTarget) - 1
	return b.WeeksRequiredByTarget[last] + (targetLevel - last)
}

// StarFactor returns the diminishing-return multiplier for the star about to
// be gained (1-based). Out-of-range stars earn nothing.
func (b Balance) StarFactor(nextStar int) float64 {
	if nextStar < 1 || nextStar > len(b.StarFactors) {
		return 0.0
	}
	return b.StarFactors[nextStar-1]
}
