// Package rumor runs the gossip mill: per-topic heat counters that decay
// weekly at a rate set by how calm the pub is, projected into disposable
// instance views that bias traffic, spend, and mood.
package rumor

import "math"

// Topic is one rumor subject with its bias weights. Weights are applied
// per active instance, scaled by spread and intensity.
type Topic struct {
	ID            string
	Name          string
	TrafficWeight float64
	WealthWeight  float64
	MoodWeight    float64
}

// Topics is the fixed rumor catalog.
var Topics = []Topic{
	{ID: "watered_beer", Name: "They water the beer", TrafficWeight: -0.20, WealthWeight: -0.05, MoodWeight: -0.10},
	{ID: "fight_night", Name: "Fights every night", TrafficWeight: -0.15, WealthWeight: -0.10, MoodWeight: -0.15},
	{ID: "shark_money", Name: "Shark money behind the bar", TrafficWeight: -0.05, WealthWeight: -0.15, MoodWeight: -0.05},
	{ID: "resident_ghost", Name: "A ghost in the cellar", TrafficWeight: 0.10, WealthWeight: 0.05, MoodWeight: 0.05},
	{ID: "best_pie", Name: "Best pie in the borough", TrafficWeight: 0.20, WealthWeight: 0.10, MoodWeight: 0.10},
	{ID: "celebrity_seen", Name: "A famous face drinks here", TrafficWeight: 0.15, WealthWeight: 0.15, MoodWeight: 0.05},
}

// TopicByID looks up a catalog entry.
func TopicByID(id string) (Topic, bool) {
	for _, t := range Topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// Instance is a disposable weekly projection of one hot topic. Instances
// are rebuilt from heat every week and are never the source of truth.
type Instance struct {
	Topic         string  `json:"topic"`
	Intensity     int     `json:"intensity"`
	Spread        float64 `json:"spread"`
	DaysRemaining int     `json:"days_remaining"`
}

// State holds the heat map and the current week's instance projections.
type State struct {
	Heat      map[string]int `json:"heat"`
	Instances []Instance     `json:"instances"`
}

// New creates a cold rumor mill.
func New() *State {
	return &State{Heat: map[string]int{}}
}

// Bind repairs the map after a restore.
func (s *State) Bind() {
	if s.Heat == nil {
		s.Heat = map[string]int{}
	}
}

// AddHeat stokes a topic, clamped to [0, 100].
func (s *State) AddHeat(topic string, amount int) {
	h := s.Heat[topic] + amount
	if h < 0 {
		h = 0
	}
	if h > 100 {
		h = 100
	}
	s.Heat[topic] = h
}

// calmSignal scores how settled the pub looks this week. Higher calm means
// faster rumor decay.
func calmSignal(morale float64, securityLevel, weekNegativeEvents int) float64 {
	calm := 0.0
	if morale >= 70 {
		calm += 0.10
	} else if morale <= 40 {
		calm -= 0.05
	}
	if securityLevel >= 2 {
		calm += 0.06
	}
	if weekNegativeEvents >= 3 {
		calm -= 0.06
	}
	return calm
}

// WeekUpdate decays every hot topic and rebuilds the instance projections
// from scratch.
func (s *State) WeekUpdate(morale float64, securityLevel, weekNegativeEvents int) {
	calm := calmSignal(morale, securityLevel, weekNegativeEvents)
	for topic, heat := range s.Heat {
		if heat <= 0 {
			continue
		}
		decay := int(math.Round(2.0 + float64(heat)*0.04 - calm*5.0))
		if decay < 1 {
			decay = 1
		}
		if decay > 8 {
			decay = 8
		}
		heat -= decay
		if heat < 0 {
			heat = 0
		}
		s.Heat[topic] = heat
	}
	s.rebuildInstances()
}

func (s *State) rebuildInstances() {
	s.Instances = s.Instances[:0]
	for _, t := range Topics {
		heat := s.Heat[t.ID]
		if heat <= 0 {
			continue
		}
		intensity := heat
		if intensity > 100 {
			intensity = 100
		}
		spread := 0.15 + float64(intensity)/200.0
		if spread > 1.0 {
			spread = 1.0
		}
		days := 3 + intensity/15
		if days < 2 {
			days = 2
		}
		if days > 14 {
			days = 14
		}
		s.Instances = append(s.Instances, Instance{
			Topic:         t.ID,
			Intensity:     intensity,
			Spread:        spread,
			DaysRemaining: days,
		})
	}
}

// TrafficMultiplier aggregates active instances into a door-traffic factor,
// clamped to [0.80, 1.20].
func (s *State) TrafficMultiplier() float64 {
	return clamp(1.0+s.weightedSum(func(t Topic) float64 { return t.TrafficWeight }), 0.80, 1.20)
}

// WealthBias aggregates spend-per-head pressure, clamped to [-0.20, 0.20].
func (s *State) WealthBias() float64 {
	return clamp(s.weightedSum(func(t Topic) float64 { return t.WealthWeight }), -0.20, 0.20)
}

// MoodBias aggregates the room's temper, clamped to [-0.20, 0.20].
func (s *State) MoodBias() float64 {
	return clamp(s.weightedSum(func(t Topic) float64 { return t.MoodWeight }), -0.20, 0.20)
}

func (s *State) weightedSum(weight func(Topic) float64) float64 {
	sum := 0.0
	for _, inst := range s.Instances {
		t, found := TopicByID(inst.Topic)
		if !found {
			continue
		}
		sum += weight(t) * inst.Spread * float64(inst.Intensity) / 100.0
	}
	return sum
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
