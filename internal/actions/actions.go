// Package actions holds the landlord action catalog and its resolution
// rules. Actions share the cooldown scheduler with security tasks, pay cash
// only, and have their outcome magnitudes bent by the landlord's identity:
// a running classy-versus-shady scalar that drifts with what the landlord
// keeps choosing to do.
package actions

import (
	"math"

	"github.com/talgya/last-orders/internal/config"
	"github.com/talgya/last-orders/internal/economy"
	"github.com/talgya/last-orders/internal/entropy"
	"github.com/talgya/last-orders/internal/sched"
)

// Category tags an action's behavioral lean.
type Category string

const (
	CategoryClassy   Category = "classy"
	CategoryShady    Category = "shady"
	CategoryBalanced Category = "balanced"
)

const (
	identityMin  = -5.0
	identityMax  = 5.0
	identityGain = 0.08
)

// Action is one catalog entry. Reputation and cash numbers are the base
// magnitudes before identity scaling.
type Action struct {
	ID            string
	Name          string
	Category      Category
	Cost          float64
	Cooldown      int
	SuccessChance float64
	RepSuccess    int
	RepFailure    int
	CashSuccess   float64
	ChaosSuccess  float64
	ChaosFailure  float64
	IdentityShift float64
	SuccessText   string
	FailureText   string
}

// Catalog is the fixed landlord action table.
var Catalog = []Action{
	{
		ID: "quiz_night", Name: "Run a quiz night", Category: CategoryClassy,
		Cost: 25, Cooldown: 8, SuccessChance: 0.75,
		RepSuccess: 4, RepFailure: -2, CashSuccess: 60, ChaosSuccess: -3, ChaosFailure: 2,
		IdentityShift: 0.4,
		SuccessText:   "The quiz packs the lounge and everyone behaves.",
		FailureText:   "Half the answers leak and the room turns on you.",
	},
	{
		ID: "charm_brewery", Name: "Charm the brewery rep", Category: CategoryClassy,
		Cost: 40, Cooldown: 12, SuccessChance: 0.6,
		RepSuccess: 6, RepFailure: -1, CashSuccess: 0, ChaosSuccess: 0, ChaosFailure: 0,
		IdentityShift: 0.5,
		SuccessText:   "The brewery rep leaves smiling. Doors open.",
		FailureText:   "The rep sees through the flattery.",
	},
	{
		ID: "lock_in", Name: "After-hours lock-in", Category: CategoryShady,
		Cost: 0, Cooldown: 10, SuccessChance: 0.55,
		RepSuccess: 3, RepFailure: -6, CashSuccess: 110, ChaosSuccess: 5, ChaosFailure: 9,
		IdentityShift: -0.5,
		SuccessText:   "The lock-in pays. Nobody talks.",
		FailureText:   "Somebody talks. The lock-in goes sour.",
	},
	{
		ID: "water_the_beer", Name: "Water the guest ale", Category: CategoryShady,
		Cost: 0, Cooldown: 9, SuccessChance: 0.5,
		RepSuccess: 0, RepFailure: -8, CashSuccess: 85, ChaosSuccess: 1, ChaosFailure: 4,
		IdentityShift: -0.6,
		SuccessText:   "Nobody notices the guest ale running thin.",
		FailureText:   "A regular notices. Everyone hears about it.",
	},
	{
		ID: "free_round", Name: "Stand a free round", Category: CategoryBalanced,
		Cost: 45, Cooldown: 6, SuccessChance: 0.8,
		RepSuccess: 3, RepFailure: -1, CashSuccess: 0, ChaosSuccess: -4, ChaosFailure: 1,
		IdentityShift: 0,
		SuccessText:   "A free round settles the room.",
		FailureText:   "The free round just feeds the rowdy table.",
	},
	{
		ID: "karaoke", Name: "Put on karaoke", Category: CategoryBalanced,
		Cost: 30, Cooldown: 7, SuccessChance: 0.65,
		RepSuccess: 2, RepFailure: -3, CashSuccess: 70, ChaosSuccess: 3, ChaosFailure: 6,
		IdentityShift: 0,
		SuccessText:   "Karaoke night fills the till.",
		FailureText:   "Karaoke night empties the lounge.",
	},
}

// ByID looks up a catalog entry.
func ByID(id string) (Action, bool) {
	for _, a := range Catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// State is the landlord-action side of the scheduler plus the identity
// scalar, clamped to [-5, 5] with positive meaning classy.
type State struct {
	Identity float64       `json:"identity"`
	Family   *sched.Family `json:"family"`

	bal config.Balance
	rng entropy.Source
}

// New creates a neutral-identity state.
func New(bal config.Balance, rng entropy.Source) *State {
	s := &State{Family: sched.NewFamily(bal.CooldownUseStep, bal.CooldownUseCap)}
	s.Bind(bal, rng)
	return s
}

// Bind reattaches collaborators after construction or restore.
func (s *State) Bind(bal config.Balance, rng entropy.Source) {
	s.bal = bal
	s.rng = rng
	if s.Family == nil {
		s.Family = sched.NewFamily(bal.CooldownUseStep, bal.CooldownUseCap)
	}
}

// Result reports one resolved action. The caller applies the deltas to the
// resource model; on a declined Outcome every delta is zero.
type Result struct {
	Outcome    sched.Outcome
	Success    bool
	RepDelta   int
	CashDelta  float64
	ChaosDelta float64
	Text       string
}

// Resolve runs one landlord action in the given round: pays the cost cash
// only, rolls success, scales the outcome by identity, and drifts identity
// toward the action's lean.
func (s *State) Resolve(id string, round int, ledger *economy.Ledger) Result {
	action, found := ByID(id)
	if !found {
		return Result{Outcome: sched.Outcome{Reason: "No such action."}}
	}
	out := s.Family.Activate(action.ID, action.Cooldown, 0, round, func() bool {
		return ledger.PayCashOnly(action.Cost, "landlord_action").OK
	})
	if !out.OK {
		return Result{Outcome: out}
	}

	success := s.rng.Float() < action.SuccessChance
	scale := outcomeScale(action.Category, s.Identity, success)

	res := Result{Outcome: out, Success: success}
	if success {
		res.RepDelta = scaleRep(action.RepSuccess, scale)
		res.CashDelta = action.CashSuccess * scale
		res.ChaosDelta = action.ChaosSuccess
		res.Text = action.SuccessText
		if res.CashDelta > 0 {
			ledger.AddCash(res.CashDelta)
		}
	} else {
		res.RepDelta = scaleRep(action.RepFailure, scale)
		res.ChaosDelta = action.ChaosFailure
		res.Text = action.FailureText
	}

	s.Identity += action.IdentityShift
	if s.Identity < identityMin {
		s.Identity = identityMin
	}
	if s.Identity > identityMax {
		s.Identity = identityMax
	}
	return res
}

// TickRound advances action cooldowns by one round.
func (s *State) TickRound() { s.Family.Tick() }

// outcomeScale bends an outcome's magnitude by identity. Classy actions
// improve as identity climbs and suffer as it falls; shady actions are the
// mirror. Balanced actions are polarity-symmetric: successes grow with
// positive identity, failures worsen with negative identity.
func outcomeScale(category Category, identity float64, success bool) float64 {
	var scale float64
	switch category {
	case CategoryClassy:
		scale = 1.0 + identityGain*identity
	case CategoryShady:
		scale = 1.0 - identityGain*identity
	default:
		if success {
			scale = 1.0 + identityGain*math.Max(0, identity)
		} else {
			scale = 1.0 + identityGain*math.Max(0, -identity)
		}
	}
	if scale < 0.5 {
		scale = 0.5
	}
	return scale
}

// scaleRep scales a reputation delta, rounding half away from zero while
// preserving the raw delta's sign.
func scaleRep(base int, scale float64) int {
	if base == 0 {
		return 0
	}
	scaled := float64(base) * scale
	if scaled < 0 {
		return -int(math.Floor(-scaled + 0.5))
	}
	return int(math.Floor(scaled + 0.5))
}
