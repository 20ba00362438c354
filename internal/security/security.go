// Package security composes the pub's defensive posture: bought upgrade
// tiers, nightly bouncer hires, door policy, and short-lived staff tasks.
// Every modifier composes by pure multiplication, so only the set of active
// modifiers matters, never the order they were applied.
package security

import (
	"fmt"
	"sort"

	"github.com/talgya/last-orders/internal/config"
	"github.com/talgya/last-orders/internal/economy"
	"github.com/talgya/last-orders/internal/events"
	"github.com/talgya/last-orders/internal/sched"
)

const (
	bouncerNightlyCost   = 30.0
	marshallWeeklyCost   = 90.0
	baseLevelUpgradeCost = 150.0
	bouncerSecurityEach  = 2
	skilledManagerBonus  = 1
)

// State is the composer's persistent record. Exported fields round-trip
// through the snapshot; Bind reattaches collaborators after restore.
type State struct {
	BaseLevel          int           `json:"base_level"`
	Owned              []string      `json:"owned"`
	DoorPolicyID       string        `json:"door_policy_id"`
	BouncersTonight    int           `json:"bouncers_tonight"`
	Marshalls          int           `json:"marshalls"`
	SkilledManager     bool          `json:"skilled_manager"`
	StaffSecurityBonus int           `json:"staff_security_bonus"`
	Tasks              *sched.Family `json:"tasks"`

	bal  config.Balance
	emit events.Reporter
}

// New creates the composer with an open door and no upgrades.
func New(bal config.Balance) *State {
	s := &State{
		DoorPolicyID: "open",
		Tasks:        sched.NewFamily(bal.CooldownUseStep, bal.CooldownUseCap),
	}
	s.Bind(bal, nil)
	return s
}

// Bind attaches runtime collaborators after construction or restore.
func (s *State) Bind(bal config.Balance, emit events.Reporter) {
	s.bal = bal
	s.emit = emit
	if s.emit == nil {
		s.emit = func(events.Tone, string) {}
	}
	if s.Tasks == nil {
		s.Tasks = sched.NewFamily(bal.CooldownUseStep, bal.CooldownUseCap)
	}
	if s.DoorPolicyID == "" {
		s.DoorPolicyID = "open"
	}
}

// Owns reports whether an upgrade tier is held.
func (s *State) Owns(id string) bool {
	for _, owned := range s.Owned {
		if owned == id {
			return true
		}
	}
	return false
}

func (s *State) hasLockingUpgrade() bool {
	for _, id := range s.Owned {
		if u, found := UpgradeByID(id); found && u.Locking {
			return true
		}
	}
	return false
}

// EffectiveSecurity is the additive posture: base level, upgrade bonuses,
// two points per bouncer on tonight's door, one for a skilled manager, plus
// any staff bonus.
func (s *State) EffectiveSecurity() int {
	total := s.BaseLevel + s.StaffSecurityBonus
	for _, id := range s.Owned {
		if u, found := UpgradeByID(id); found {
			total += u.SecurityBonus
		}
	}
	total += bouncerSecurityEach * s.BouncersTonight
	if s.SkilledManager {
		total += skilledManagerBonus
	}
	return total
}

// IncidentMultiplier is the product of every owned tier's incident factor,
// the active task's factor, and the door policy's factor.
func (s *State) IncidentMultiplier() float64 {
	mult := 1.0
	for _, id := range s.Owned {
		if u, found := UpgradeByID(id); found {
			mult *= u.IncidentFactor
		}
	}
	if id, active := s.Tasks.ActiveID(); active {
		if t, found := TaskByID(id); found {
			mult *= t.IncidentFactor
		}
	}
	if p, found := DoorPolicyByID(s.DoorPolicyID); found {
		mult *= p.IncidentFactor
	}
	return mult
}

// LossMultiplier scales how much an incident costs when one does land.
func (s *State) LossMultiplier() float64 {
	mult := 1.0
	for _, id := range s.Owned {
		if u, found := UpgradeByID(id); found {
			mult *= u.LossFactor
		}
	}
	if id, active := s.Tasks.ActiveID(); active {
		if t, found := TaskByID(id); found {
			mult *= t.LossFactor
		}
	}
	return mult
}

// TrafficMultiplier reflects the door policy.
func (s *State) TrafficMultiplier() float64 {
	if p, found := DoorPolicyByID(s.DoorPolicyID); found {
		return p.TrafficFactor
	}
	return 1.0
}

// ClosingRoundBonus sums the extra rounds granted by owned upgrades, such
// as a late-night licence.
func (s *State) ClosingRoundBonus() int {
	bonus := 0
	for _, id := range s.Owned {
		if u, found := UpgradeByID(id); found {
			bonus += u.ClosingRoundBonus
		}
	}
	return bonus
}

// BuyUpgrade purchases a catalog tier, cash only. Tiers within a line must
// be bought in order.
func (s *State) BuyUpgrade(id string, ledger *economy.Ledger) economy.Outcome {
	u, found := UpgradeByID(id)
	if !found {
		return economy.Declined("No such upgrade.")
	}
	if s.Owns(id) {
		return economy.Declined("Already installed.")
	}
	if u.Tier > 1 {
		prev := fmt.Sprintf("%s_%d", u.Line, u.Tier-1)
		if !s.Owns(prev) {
			return economy.Declined("Earlier tier required first.")
		}
	}
	if out := ledger.PayCashOnly(u.Cost, "security_upgrade"); !out.OK {
		return out
	}
	s.Owned = append(s.Owned, id)
	s.emit(events.TonePositive, fmt.Sprintf("Installed: %s.", u.Name))
	return economy.Accepted()
}

// RaiseBaseLevel bumps the base security level by one, cash only, at a cost
// that climbs with the current level.
func (s *State) RaiseBaseLevel(ledger *economy.Ledger) economy.Outcome {
	cost := baseLevelUpgradeCost * float64(s.BaseLevel+1)
	if out := ledger.PayCashOnly(cost, "security_level"); !out.OK {
		return out
	}
	s.BaseLevel++
	return economy.Accepted()
}

// HireBouncer puts one more bouncer on tonight's door, cash only.
func (s *State) HireBouncer(ledger *economy.Ledger) economy.Outcome {
	if out := ledger.PayCashOnly(bouncerNightlyCost, "bouncer"); !out.OK {
		return out
	}
	s.BouncersTonight++
	return economy.Accepted()
}

// EngageMarshall retains a standing marshall, cash only.
func (s *State) EngageMarshall(ledger *economy.Ledger) economy.Outcome {
	if out := ledger.PayCashOnly(marshallWeeklyCost, "marshall"); !out.OK {
		return out
	}
	s.Marshalls++
	return economy.Accepted()
}

// ResolveTask starts a catalog task. Tasks need at least one locking
// upgrade tier and someone on the door (a bouncer tonight or a standing
// marshall); a task already active, or one still cooling down, is rejected.
func (s *State) ResolveTask(id string, round int, ledger *economy.Ledger) sched.Outcome {
	t, found := TaskByID(id)
	if !found {
		return sched.Outcome{Reason: "No such task."}
	}
	if !s.hasLockingUpgrade() {
		return sched.Outcome{Reason: "Needs a locking upgrade first."}
	}
	if s.BouncersTonight == 0 && s.Marshalls == 0 {
		return sched.Outcome{Reason: "Nobody on the door to run it."}
	}
	if _, active := s.Tasks.ActiveID(); active {
		return sched.Outcome{Reason: "Already active."}
	}
	out := s.Tasks.Activate(id, t.Cooldown, t.Duration, round, func() bool {
		return ledger.PayCashOnly(t.Cost, "security_task").OK
	})
	if out.OK {
		s.emit(events.ToneEvent, fmt.Sprintf("Staff task running: %s.", t.Name))
	}
	return out
}

// SetDoorPolicy switches the door stance.
func (s *State) SetDoorPolicy(id string) economy.Outcome {
	if _, found := DoorPolicyByID(id); !found {
		return economy.Declined("No such policy.")
	}
	s.DoorPolicyID = id
	return economy.Accepted()
}

// TickRound advances task durations and cooldowns by one round.
func (s *State) TickRound() { s.Tasks.Tick() }

// StartNight clears per-night hires.
func (s *State) StartNight() { s.BouncersTonight = 0 }

// RemoveCheapestUpgrades strips up to n owned upgrades, cheapest first, and
// returns their names. Used by bailiff enforcement.
func (s *State) RemoveCheapestUpgrades(n int) []string {
	if n <= 0 || len(s.Owned) == 0 {
		return nil
	}
	owned := make([]Upgrade, 0, len(s.Owned))
	for _, id := range s.Owned {
		if u, found := UpgradeByID(id); found {
			owned = append(owned, u)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].Cost < owned[j].Cost })
	if n > len(owned) {
		n = len(owned)
	}
	removed := make([]string, 0, n)
	for _, u := range owned[:n] {
		removed = append(removed, u.Name)
		s.dropOwned(u.ID)
	}
	return removed
}

func (s *State) dropOwned(id string) {
	for i, owned := range s.Owned {
		if owned == id {
			s.Owned = append(s.Owned[:i], s.Owned[i+1:]...)
			return
		}
	}
}

// ResetForPrestige clears the bought posture while leaving staff and door
// stance alone.
func (s *State) ResetForPrestige() {
	s.Owned = nil
	s.BaseLevel = 0
}
