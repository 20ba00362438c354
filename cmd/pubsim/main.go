// Command pubsim runs the Last Orders pub simulation headless: it loads or
// starts a game, plays a configured number of weeks with a simple house
// strategy, and saves a snapshot after every week.
package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/talgya/last-orders/internal/config"
	"github.com/talgya/last-orders/internal/economy"
	"github.com/talgya/last-orders/internal/engine"
	"github.com/talgya/last-orders/internal/entropy"
	"github.com/talgya/last-orders/internal/events"
	"github.com/talgya/last-orders/internal/persistence"
)

const (
	startingCash = 250.0
	startingRep  = 5
)

func main() {
	runner, err := config.LoadRunner()
	if err != nil {
		slog.Error("failed to load runner config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(runner.LogLevel),
	}))
	slog.SetDefault(logger)

	slog.Info("Last Orders pub simulation")

	seed := runner.Seed
	if seed == 0 {
		seed, err = entropy.NewSeed()
		if err != nil {
			slog.Error("failed to generate seed", "error", err)
			os.Exit(1)
		}
	}

	balance, err := config.BalanceForPreset(runner.Preset)
	if err != nil {
		slog.Error("bad preset", "error", err)
		os.Exit(1)
	}

	os.MkdirAll(filepath.Dir(runner.DBPath), 0755)
	db, err := persistence.Open(runner.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", runner.DBPath)

	deps := engine.Deps{
		Balance: balance,
		RNG:     entropy.NewSeeded(seed),
		Sink:    events.SlogSink{Logger: logger},
		Logger:  logger,
		WeekStart: func(week int) {
			slog.Info("week begins", "week", week)
		},
	}

	sim, err := loadOrStart(db, seed, deps)
	if err != nil {
		slog.Error("failed to prepare simulation", "error", err)
		os.Exit(1)
	}
	slog.Info("simulation ready", "seed", sim.Seed, "week", sim.Week,
		"cash", economy.Money(sim.Ledger.Cash))

	targetWeek := sim.Week + runner.Weeks
	for sim.Week < targetWeek && !sim.GameOver {
		playWeek(sim)
		payload, err := sim.Marshal()
		if err != nil {
			slog.Error("failed to serialize simulation", "error", err)
			os.Exit(1)
		}
		if _, err := db.SaveSnapshot(sim.Week, payload); err != nil {
			slog.Error("failed to save snapshot", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("run complete",
		"week", sim.Week,
		"cash", economy.Money(sim.Ledger.Cash),
		"reputation", sim.Resources.Reputation,
		"pub_level", sim.Progress.PubLevel,
		"stars", sim.Progress.Stars,
		"nights", sim.Stats.NightsPlayed,
		"incidents", sim.Stats.Incidents,
		"game_over", sim.GameOver,
	)
}

// loadOrStart restores the latest snapshot when one exists; with a clean
// database it starts a fresh game. Any other load failure is fatal; a
// corrupt save must never quietly become a new game.
func loadOrStart(db *persistence.DB, seed int64, deps engine.Deps) (*engine.Simulation, error) {
	payload, err := db.LoadLatest()
	if errors.Is(err, persistence.ErrNoSnapshot) {
		slog.Info("starting fresh game", "seed", seed)
		return engine.NewSimulation(seed, startingCash, startingRep, deps), nil
	}
	if err != nil {
		return nil, err
	}
	slog.Info("restoring saved game")
	return engine.Restore(payload, deps)
}

// playWeek runs seven nights with a plain house strategy: keep a bouncer on
// the door, restock midweek, run a quiz when it is off cooldown.
func playWeek(sim *engine.Simulation) {
	for day := 1; day <= 7 && !sim.GameOver; day++ {
		if out := sim.OpenNight(); !out.OK {
			slog.Warn("could not open night", "reason", out.Reason)
			return
		}
		sim.HireBouncer()
		if day == 3 {
			sim.OrderStock(120)
		}
		for sim.NightOpen && !sim.GameOver {
			if sim.Round == 2 {
				sim.ResolveLandlordAction("quiz_night")
			}
			if sim.Round == 4 {
				sim.ResolveSecurityTask("check_ids")
			}
			if out := sim.PlayRound(); !out.OK {
				slog.Warn("round refused", "reason", out.Reason)
				break
			}
		}
	}
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
