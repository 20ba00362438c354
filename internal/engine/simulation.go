// Simulation ties the pub's subsystems together and runs the round → night
// → week cycle. It is the single writer: every mutation of the underlying
// state flows through a method on Simulation, synchronously, on the
// caller's goroutine.
package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/talgya/last-orders/internal/actions"
	"github.com/talgya/last-orders/internal/config"
	"github.com/talgya/last-orders/internal/economy"
	"github.com/talgya/last-orders/internal/entropy"
	"github.com/talgya/last-orders/internal/events"
	"github.com/talgya/last-orders/internal/market"
	"github.com/talgya/last-orders/internal/progression"
	"github.com/talgya/last-orders/internal/resources"
	"github.com/talgya/last-orders/internal/rumor"
	"github.com/talgya/last-orders/internal/security"
)

// Outcome is the command surface's result value. Expected business
// declines land here with a reason; they never corrupt state and never
// surface as errors.
type Outcome struct {
	OK     bool
	Reason string
}

func accepted() Outcome              { return Outcome{OK: true} }
func declined(reason string) Outcome { return Outcome{Reason: reason} }

// SimStats aggregates run statistics for reporting.
type SimStats struct {
	NightsPlayed int     `json:"nights_played"`
	RoundsPlayed int     `json:"rounds_played"`
	Incidents    int     `json:"incidents"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalLosses  float64 `json:"total_losses"`
}

// Simulation is the complete game state plus its runtime collaborators.
// Exported fields are the serializable state; Bind reattaches everything
// else after a restore.
type Simulation struct {
	Seed  int64 `json:"seed"`
	Week  int   `json:"week"`
	Day   int   `json:"day"`
	Round int   `json:"round"`

	NightOpen      bool   `json:"night_open"`
	GameOver       bool   `json:"game_over"`
	GameOverReason string `json:"game_over_reason"`

	// Served holds tonight's unique patron identifiers: repeat service of
	// the same patron never grows the cover count.
	Served          map[string]bool `json:"served"`
	NightCovers     int             `json:"night_covers"`
	BestNightCovers int             `json:"best_night_covers"`
	TotalCovers     int             `json:"total_covers"`

	WeekNegativeEvents int  `json:"week_negative_events"`
	WeeksDebtFree      int  `json:"weeks_debt_free"`
	StormNights        int  `json:"storm_nights"`
	SharkEverCleared   bool `json:"shark_ever_cleared"`

	// LastWeekFired guards the week-start callback: one firing per
	// distinct week transition, no matter how often the host pokes us.
	LastWeekFired int `json:"last_week_fired"`

	Weather      market.Weather `json:"weather"`
	WeekPressure float64        `json:"week_pressure"`

	Resources *resources.State   `json:"resources"`
	Ledger    *economy.Ledger    `json:"ledger"`
	Security  *security.State    `json:"security"`
	Actions   *actions.State     `json:"actions"`
	Progress  *progression.State `json:"progress"`
	Rumors    *rumor.State       `json:"rumors"`

	Stats SimStats `json:"stats"`

	bal       config.Balance
	rng       entropy.Source
	sink      events.Sink
	curve     *market.Curve
	weekStart func(week int)
	payday    func(bills []*economy.PaydayBill)
	logger    *slog.Logger
}

// Deps are the runtime collaborators a Simulation needs beyond its state.
type Deps struct {
	Balance   config.Balance
	RNG       entropy.Source
	Sink      events.Sink
	WeekStart func(week int)
	Logger    *slog.Logger

	// Payday sees the week's aggregated bills before resolution. Hosts
	// adjust Selected amounts and funding sources here; nil pays every
	// bill at its minimum from cash.
	Payday func(bills []*economy.PaydayBill)

	// Selector overrides the ledger's credit-line tie-break; nil keeps the
	// greatest-available default.
	Selector economy.Selector
}

// NewSimulation starts a fresh game from a seed.
func NewSimulation(seed int64, startingCash float64, startingRep int, deps Deps) *Simulation {
	s := &Simulation{
		Seed:         seed,
		Week:         1,
		Day:          1,
		Served:       map[string]bool{},
		WeekPressure: 1.0,
		Resources:    resources.New(startingRep),
		Rumors:       rumor.New(),
	}
	if deps.RNG == nil {
		deps.RNG = entropy.NewSeeded(seed)
	}
	s.Ledger = economy.NewLedger(startingCash, deps.Balance, deps.RNG, nil)
	s.Security = security.New(deps.Balance)
	s.Actions = actions.New(deps.Balance, deps.RNG)
	s.Progress = progression.New(deps.Balance)
	s.Bind(deps)
	s.WeekPressure = s.pressureForWeek(s.Week)
	return s
}

// Bind attaches the runtime collaborators to a constructed or restored
// Simulation. Must be called before any command.
func (s *Simulation) Bind(deps Deps) {
	s.bal = deps.Balance
	s.rng = deps.RNG
	if s.rng == nil {
		s.rng = entropy.NewSeeded(s.Seed)
	}
	s.sink = deps.Sink
	if s.sink == nil {
		s.sink = events.Discard{}
	}
	s.weekStart = deps.WeekStart
	s.payday = deps.Payday
	s.logger = deps.Logger
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.curve = market.NewCurve(s.Seed)

	if s.Served == nil {
		s.Served = map[string]bool{}
	}
	s.Ledger.Bind(s.bal, s.rng, s.report, deps.Selector)
	s.Security.Bind(s.bal, s.report)
	s.Actions.Bind(s.bal, s.rng)
	s.Progress.Bind(s.bal, s.report)
	s.Rumors.Bind()
}

// report forwards an entry to the event sink stamped with the current week
// and day, and tracks the weekly negative-event count the rumor engine
// reads.
func (s *Simulation) report(tone events.Tone, text string) {
	if tone == events.ToneNegative {
		s.WeekNegativeEvents++
	}
	s.sink.Emit(events.Entry{Week: s.Week, Day: s.Day, Tone: tone, Text: text})
}

func (s *Simulation) pressureForWeek(week int) float64 {
	if !s.bal.MarketPressureEnabled {
		return 1.0
	}
	return s.curve.PressureForWeek(week)
}

// Marshal serializes the whole game state as one unit.
func (s *Simulation) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal simulation: %w", err)
	}
	return data, nil
}

// Restore rebuilds a Simulation from a snapshot payload and binds the
// given collaborators. A malformed payload is a hard failure; the engine
// never quietly starts a fresh game instead.
func Restore(data []byte, deps Deps) (*Simulation, error) {
	var s Simulation
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal simulation snapshot: %w", err)
	}
	if s.Resources == nil || s.Ledger == nil || s.Security == nil ||
		s.Actions == nil || s.Progress == nil || s.Rumors == nil {
		return nil, fmt.Errorf("simulation snapshot is missing subsystem state")
	}
	s.Bind(deps)
	return &s, nil
}
