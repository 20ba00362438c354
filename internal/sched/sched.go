// Package sched is the per-action bookkeeping shared by landlord actions and
// security tasks: active duration, post-expiry cooldown, and lifetime use
// counts. One Family covers one action group and enforces the group's
// one-action-per-round lock.
package sched

import "math"

// ActionState tracks one action identifier. Created lazily on first use.
type ActionState struct {
	RoundsRemaining   int `json:"rounds_remaining"`
	CooldownRemaining int `json:"cooldown_remaining"`
	Uses              int `json:"uses"`

	// pendingCooldown is armed at activation and applied only when the
	// active duration runs out. A cooldown never starts on activation.
	PendingCooldown int `json:"pending_cooldown"`
}

// Outcome reports whether an activation went through, with a human-readable
// reason when it did not. Business declines are values, not errors.
type Outcome struct {
	OK     bool
	Reason string
}

func ok() Outcome               { return Outcome{OK: true} }
func declined(r string) Outcome { return Outcome{Reason: r} }

// Family is the scheduler for one group of actions.
type Family struct {
	States map[string]*ActionState `json:"states"`

	// LockedRound is the round index at which an action in this family last
	// resolved; a second activation in the same round is rejected.
	LockedRound int `json:"locked_round"`

	// UseStep and UseCap shape the cooldown growth, from balance config.
	UseStep float64 `json:"use_step"`
	UseCap  float64 `json:"use_cap"`
}

// NewFamily creates an empty scheduler group.
func NewFamily(useStep, useCap float64) *Family {
	return &Family{
		States:      make(map[string]*ActionState),
		LockedRound: -1,
		UseStep:     useStep,
		UseCap:      useCap,
	}
}

// State returns the record for an action, creating it on first use.
func (f *Family) State(id string) *ActionState {
	st, found := f.States[id]
	if !found {
		st = &ActionState{}
		f.States[id] = st
	}
	return st
}

// CanActivate checks the round lock and the action's cooldown.
func (f *Family) CanActivate(id string, round int) Outcome {
	if f.LockedRound == round {
		return declined("Only one action per round.")
	}
	st := f.State(id)
	if st.RoundsRemaining > 0 {
		return declined("Already active.")
	}
	if st.CooldownRemaining > 0 {
		return declined("Cooldown active.")
	}
	return ok()
}

// Activate locks the family for this round, bumps the use count, arms the
// use-scaled cooldown, and starts the active duration. pay, when non-nil, is
// the atomic cash deduction; when it reports false the activation is blocked
// and no state changes.
func (f *Family) Activate(id string, baseCooldown, duration, round int, pay func() bool) Outcome {
	if out := f.CanActivate(id, round); !out.OK {
		return out
	}
	if pay != nil && !pay() {
		return declined("Insufficient cash.")
	}

	st := f.State(id)
	st.PendingCooldown = scaledCooldown(baseCooldown, st.Uses, f.UseStep, f.UseCap)
	st.Uses++
	f.LockedRound = round

	if duration > 0 {
		st.RoundsRemaining = duration
	} else {
		// Instant actions: the "duration" expires immediately, so the
		// cooldown begins now.
		st.CooldownRemaining = st.PendingCooldown
		st.PendingCooldown = 0
	}
	return ok()
}

// Tick advances every action by one round: active durations count down
// first, and an action whose duration just hit zero starts its cooldown on
// the same tick.
func (f *Family) Tick() {
	for _, st := range f.States {
		if st.RoundsRemaining > 0 {
			st.RoundsRemaining--
			if st.RoundsRemaining == 0 {
				st.CooldownRemaining = st.PendingCooldown
				st.PendingCooldown = 0
			}
			continue
		}
		if st.CooldownRemaining > 0 {
			st.CooldownRemaining--
		}
	}
}

// ActiveID returns the identifier of the action currently running, if any.
func (f *Family) ActiveID() (string, bool) {
	for id, st := range f.States {
		if st.RoundsRemaining > 0 {
			return id, true
		}
	}
	return "", false
}

// scaledCooldown grows the base cooldown with prior lifetime uses: the first
// use pays the base cooldown, the second pays +10%, plateauing at double the
// base once ten uses are banked.
func scaledCooldown(base, priorUses int, step, cap float64) int {
	growth := float64(priorUses) * step
	if growth > cap {
		growth = cap
	}
	return int(math.Ceil(float64(base) * (1.0 + growth)))
}
