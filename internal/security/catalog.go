package security

// Upgrade is one tier of a security upgrade line. Tiers within a line must
// be bought in order, and each successive tier carries strictly lower
// incident and loss factors than the one before it.
type Upgrade struct {
	ID                string
	Line              string
	Tier              int
	Name              string
	Cost              float64
	SecurityBonus     int
	IncidentFactor    float64
	LossFactor        float64
	Locking           bool
	ClosingRoundBonus int
}

// Upgrades is the fixed catalog, keyed by ID.
var Upgrades = []Upgrade{
	{ID: "door_1", Line: "door", Tier: 1, Name: "Reinforced door", Cost: 180, SecurityBonus: 1, IncidentFactor: 0.95, LossFactor: 0.96, Locking: true},
	{ID: "door_2", Line: "door", Tier: 2, Name: "Steel-cored door", Cost: 420, SecurityBonus: 1, IncidentFactor: 0.90, LossFactor: 0.92, Locking: true},
	{ID: "door_3", Line: "door", Tier: 3, Name: "Coded entry door", Cost: 900, SecurityBonus: 2, IncidentFactor: 0.84, LossFactor: 0.86, Locking: true},

	{ID: "light_1", Line: "lighting", Tier: 1, Name: "Yard lighting", Cost: 120, SecurityBonus: 0, IncidentFactor: 0.96, LossFactor: 0.98},
	{ID: "light_2", Line: "lighting", Tier: 2, Name: "Motion floodlights", Cost: 300, SecurityBonus: 1, IncidentFactor: 0.91, LossFactor: 0.95},

	{ID: "alarm_1", Line: "alarm", Tier: 1, Name: "Burglar alarm", Cost: 260, SecurityBonus: 1, IncidentFactor: 0.94, LossFactor: 0.90, Locking: true},
	{ID: "alarm_2", Line: "alarm", Tier: 2, Name: "Monitored alarm", Cost: 620, SecurityBonus: 1, IncidentFactor: 0.88, LossFactor: 0.82, Locking: true},

	{ID: "cctv_1", Line: "cctv", Tier: 1, Name: "CCTV over the till", Cost: 220, SecurityBonus: 1, IncidentFactor: 0.93, LossFactor: 0.94},

	{ID: "late_licence", Line: "licence", Tier: 1, Name: "Late-night licence", Cost: 750, SecurityBonus: 0, IncidentFactor: 1.0, LossFactor: 1.0, ClosingRoundBonus: 5},
}

// UpgradeByID looks up a catalog entry.
func UpgradeByID(id string) (Upgrade, bool) {
	for _, u := range Upgrades {
		if u.ID == id {
			return u, true
		}
	}
	return Upgrade{}, false
}

// Task is a security task the staff can run for a few rounds.
type Task struct {
	ID             string
	Name           string
	Cost           float64
	Duration       int
	Cooldown       int
	IncidentFactor float64
	LossFactor     float64
}

// Tasks is the fixed task catalog.
var Tasks = []Task{
	{ID: "check_ids", Name: "Check IDs", Cost: 15, Duration: 4, Cooldown: 6, IncidentFactor: 0.92, LossFactor: 1.0},
	{ID: "bag_search", Name: "Bag search at the door", Cost: 25, Duration: 3, Cooldown: 8, IncidentFactor: 0.88, LossFactor: 0.95},
	{ID: "walk_the_floor", Name: "Walk the floor", Cost: 10, Duration: 5, Cooldown: 5, IncidentFactor: 0.95, LossFactor: 0.90},
}

// TaskByID looks up a task.
func TaskByID(id string) (Task, bool) {
	for _, t := range Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// DoorPolicy shapes who gets in: stricter doors cut incidents at the price
// of traffic.
type DoorPolicy struct {
	ID             string
	Name           string
	IncidentFactor float64
	TrafficFactor  float64
}

// DoorPolicies is the fixed policy table. "open" is the default.
var DoorPolicies = []DoorPolicy{
	{ID: "open", Name: "Open door", IncidentFactor: 1.00, TrafficFactor: 1.00},
	{ID: "selective", Name: "Selective door", IncidentFactor: 0.90, TrafficFactor: 0.92},
	{ID: "regulars", Name: "Regulars only", IncidentFactor: 0.78, TrafficFactor: 0.80},
}

// DoorPolicyByID looks up a policy.
func DoorPolicyByID(id string) (DoorPolicy, bool) {
	for _, p := range DoorPolicies {
		if p.ID == id {
			return p, true
		}
	}
	return DoorPolicy{}, false
}
