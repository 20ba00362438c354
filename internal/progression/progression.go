// Package progression tracks milestones, pub level, and prestige. Levels
// gate on both a cumulative milestone count and weeks held at the current
// level; prestige resets most of the pub but banks diminishing-return
// legacy bonuses that survive every reset.
package progression

import (
	"fmt"

	"github.com/talgya/last-orders/internal/config"
	"github.com/talgya/last-orders/internal/events"
)

// Outcome reports a business-rule result, mirroring the ledger's style.
type Outcome struct {
	OK     bool
	Reason string
}

// LegacyBonuses are the non-negative accumulators carried across prestige
// resets. Add only ever grows them.
type LegacyBonuses struct {
	InventoryCap    float64 `json:"inventory_cap"`
	InnRooms        float64 `json:"inn_rooms"`
	TrafficMult     float64 `json:"traffic_mult"`
	SupplierCredit  float64 `json:"supplier_credit"`
	BaseSecurity    float64 `json:"base_security"`
	StaffEfficiency float64 `json:"staff_efficiency"`
}

// prestigeBase is the bundle earned by a full prestige before the star
// factor is applied.
var prestigeBase = LegacyBonuses{
	InventoryCap:    20,
	InnRooms:        1,
	TrafficMult:     0.05,
	SupplierCredit:  150,
	BaseSecurity:    1,
	StaffEfficiency: 0.04,
}

// Scaled returns a copy with every field multiplied by factor.
func (b LegacyBonuses) Scaled(factor float64) LegacyBonuses {
	return LegacyBonuses{
		InventoryCap:    b.InventoryCap * factor,
		InnRooms:        b.InnRooms * factor,
		TrafficMult:     b.TrafficMult * factor,
		SupplierCredit:  b.SupplierCredit * factor,
		BaseSecurity:    b.BaseSecurity * factor,
		StaffEfficiency: b.StaffEfficiency * factor,
	}
}

// Add accumulates another bundle into this one.
func (b *LegacyBonuses) Add(other LegacyBonuses) {
	b.InventoryCap += other.InventoryCap
	b.InnRooms += other.InnRooms
	b.TrafficMult += other.TrafficMult
	b.SupplierCredit += other.SupplierCredit
	b.BaseSecurity += other.BaseSecurity
	b.StaffEfficiency += other.StaffEfficiency
}

// State is the progression record. Exported fields round-trip through the
// snapshot; Bind reattaches collaborators after restore.
type State struct {
	Achieved        map[string]bool `json:"achieved"`
	AchievedCount   int             `json:"achieved_count"`
	PubLevel        int             `json:"pub_level"`
	WeeksAtLevel    int             `json:"weeks_at_level"`
	Stars           int             `json:"stars"`
	Legacy          LegacyBonuses   `json:"legacy"`
	KitchenUnlocked bool            `json:"kitchen_unlocked"`
	InnUnlocked     bool            `json:"inn_unlocked"`
	InnRooms        int             `json:"inn_rooms"`

	bal  config.Balance
	emit events.Reporter
}

// New creates a level-zero pub with no milestones.
func New(bal config.Balance) *State {
	s := &State{Achieved: map[string]bool{}}
	s.Bind(bal, nil)
	return s
}

// Bind reattaches collaborators after construction or restore.
func (s *State) Bind(bal config.Balance, emit events.Reporter) {
	s.bal = bal
	s.emit = emit
	if s.emit == nil {
		s.emit = func(events.Tone, string) {}
	}
	if s.Achieved == nil {
		s.Achieved = map[string]bool{}
	}
}

// Grant marks a milestone achieved. Idempotent: re-granting is a no-op and
// the cached count always equals the set's size.
func (s *State) Grant(id string) bool {
	if s.Achieved[id] {
		return false
	}
	s.Achieved[id] = true
	s.AchievedCount = len(s.Achieved)
	return true
}

// EvaluateMilestones grants every catalog milestone whose condition holds.
func (s *State) EvaluateMilestones(in Inputs) {
	for _, m := range Milestones {
		if !s.Achieved[m.ID] && m.Condition(in) {
			s.Grant(m.ID)
			s.emit(events.TonePositive, fmt.Sprintf("Milestone: %s.", m.Name))
		}
	}
}

// EvaluateWeek runs the level gate at a week boundary. Advancing needs both
// the milestone threshold for the next level and enough weeks banked at the
// current one; at most one level per call even when the milestone count
// would satisfy several.
func (s *State) EvaluateWeek() {
	target := s.PubLevel + 1
	if s.PubLevel < s.bal.MaxLevel &&
		s.AchievedCount >= Threshold(target) &&
		s.WeeksAtLevel >= s.bal.WeeksRequired(target) {
		s.PubLevel = target
		s.WeeksAtLevel = 0
		s.applyLevelUnlocks()
		s.emit(events.TonePositive, fmt.Sprintf("The pub steps up to level %d.", s.PubLevel))
		return
	}
	s.WeeksAtLevel++
}

func (s *State) applyLevelUnlocks() {
	if s.PubLevel >= 2 {
		s.KitchenUnlocked = true
	}
	if s.PubLevel >= 3 && !s.InnUnlocked {
		s.InnUnlocked = true
		s.InnRooms = 2 + int(s.Legacy.InnRooms)
	}
}

// RepMultiplier is the pub-level reputation scaling fed to the resource
// model: a higher-profile pub feels every swing a little harder.
func (s *State) RepMultiplier() float64 {
	return 1.0 + 0.05*float64(s.PubLevel)
}

// CanPrestige checks the gate without mutating: maximum pub level, the
// larger prestige milestone set, and headroom under the star cap.
func (s *State) CanPrestige() Outcome {
	if s.PubLevel < s.bal.MaxLevel {
		return Outcome{Reason: "Pub level too low."}
	}
	if s.AchievedCount < Threshold(s.bal.MaxLevel+1) {
		return Outcome{Reason: "Not enough milestones."}
	}
	if s.Stars >= s.bal.MaxStars {
		return Outcome{Reason: "Star cap reached."}
	}
	return Outcome{OK: true}
}

// ConfirmPrestige performs the reset: level back to zero, milestones
// cleared, unlocks revoked, one more star, and the legacy bundle grown by
// the diminishing star factor. Cash, reputation, chaos, and morale are
// untouched; clearing owned upgrades belongs to the caller.
func (s *State) ConfirmPrestige() Outcome {
	if out := s.CanPrestige(); !out.OK {
		return out
	}
	s.Stars++
	s.Legacy.Add(prestigeBase.Scaled(s.bal.StarFactor(s.Stars)))
	s.PubLevel = 0
	s.WeeksAtLevel = 0
	s.Achieved = map[string]bool{}
	s.AchievedCount = 0
	s.KitchenUnlocked = false
	s.InnUnlocked = false
	s.InnRooms = 0
	s.emit(events.ToneEvent, fmt.Sprintf("The pub is reborn. %d star(s) over the door.", s.Stars))
	return Outcome{OK: true}
}

// ResetForBankruptcy clears level, stars, and milestones. Legacy bonuses do
// not survive bankruptcy.
func (s *State) ResetForBankruptcy() {
	s.PubLevel = 0
	s.WeeksAtLevel = 0
	s.Stars = 0
	s.Achieved = map[string]bool{}
	s.AchievedCount = 0
	s.Legacy = LegacyBonuses{}
	s.KitchenUnlocked = false
	s.InnUnlocked = false
	s.InnRooms = 0
}
