package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pterm/pterm"

	"holdem-arena/server/agent"
	"holdem-arena/server/config"
	"holdem-arena/server/engine"
	"holdem-arena/server/render"
	"holdem-arena/server/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           cfg.Level(),
	})
	if !cfg.Color() {
		pterm.DisableColor()
	}

	var migrate, duel, serve bool
	for _, a := range os.Args[1:] {
		switch a {
		case "--migrate":
			migrate = true
		case "--duel":
			duel = true
		case "--serve":
			serve = true
		case "-h", "--help":
			fmt.Println("usage: holdem-arena [--duel | --serve | --migrate]")
			fmt.Println(config.Usage())
			return
		default:
			logger.Fatal("unknown flag", "arg", a)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	db := openStore(ctx, cfg, logger, migrate)
	if db != nil {
		defer db.Close()
	}
	if migrate {
		if db == nil {
			logger.Fatal("--migrate needs DATABASE_URL")
		}
		logger.Info("migrated")
		return
	}

	seeds := seederFor(cfg)
	logger.Debug("seed", "base", seeds.base)

	switch {
	case duel:
		err = runDuel(ctx, cfg, logger, db, seeds)
	case serve:
		err = runServer(ctx, cfg, logger, db, seeds)
	default:
		err = runInteractive(ctx, cfg, logger, db, seeds)
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, render.ErrQuit) {
		logger.Fatal("exit", "err", err)
	}
}

// openStore returns nil when DATABASE_URL is empty or the database cannot be
// reached; play continues without an audit log.
func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger, migrate bool) *store.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err == nil {
		err = db.Ping(ctx)
	}
	if err != nil {
		logger.Warn("DB disabled (open failed)", "err", err)
		return nil
	}
	if migrate || cfg.AutoMigrate {
		if err := store.Migrate(ctx, db); err != nil {
			logger.Warn("migrate failed (continuing without DB)", "err", err)
			db.Close()
			return nil
		}
	}
	return db
}

func newAgent(cfg *config.Config, name string, rng engine.RNG, logger *log.Logger) *agent.Heuristic {
	return agent.NewHeuristic(name, rng,
		agent.WithBluffProb(cfg.BluffProb),
		agent.WithOpenRaiseTo(cfg.OpenRaiseTo),
		agent.WithLogger(logger),
	)
}

func sinks(cfg *config.Config, logger *log.Logger, db *store.DB, extra ...engine.Sink) engine.Sink {
	out := extra
	if db != nil {
		out = append(out, newRecorder(db, cfg.Engine(), logger))
	}
	return engine.Tee(out...)
}

//
// ===== interactive =====
//

func runInteractive(ctx context.Context, cfg *config.Config, logger *log.Logger, db *store.DB, seeds *seeder) error {
	names := [2]string{cfg.PlayerName, cfg.AgentName}
	human := engine.SeatA
	stats := NewStats(names)
	term := render.NewTerminal(human, names)

	tbl := engine.NewTable(cfg.Engine(), seeds.rng(),
		engine.WithNames(names[0], names[1]),
		engine.WithSink(sinks(cfg, logger, db, term, stats)),
		engine.WithLogger(logger.WithPrefix("table")),
	)
	var seats [2]agent.Agent
	seats[human] = render.NewHuman(cfg.PlayerName, nil)
	seats[human.Other()] = newAgent(cfg, cfg.AgentName, seeds.rng(), logger)

	think := func(ctx context.Context, seat engine.Seat) error {
		if seat == human || cfg.ThinkDelay <= 0 {
			return nil
		}
		spinner, _ := pterm.DefaultSpinner.Start(pterm.Sprintf("%s is thinking ...", pterm.LightCyan(cfg.AgentName)))
		defer spinner.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.ThinkDelay):
			return nil
		}
	}

	pterm.DefaultHeader.WithFullWidth().Println("Heads-up Hold'em")
	pterm.Info.Printfln("Blinds %d/%d, stacks %d", cfg.SB, cfg.BB, cfg.StartStack)

	var err error
	for {
		if _, err = tbl.StartHand(); err != nil {
			break
		}
		if err = drive(ctx, tbl, seats, think); err != nil {
			break
		}
		if tbl.Over() {
			break
		}
		next, _ := pterm.DefaultInteractiveConfirm.WithDefaultText("Deal the next hand?").WithDefaultValue(true).Show()
		if !next {
			break
		}
	}
	if errors.Is(err, engine.ErrGameOver) || tbl.Over() {
		err = nil
		s := tbl.Stacks()
		winner := names[0]
		if s[0] == 0 {
			winner = names[1]
		}
		pterm.Success.Printfln("Game over: %s wins after %d hands", winner, tbl.Hands())
	}
	printStats(stats, cfg.BB)
	return err
}

func printStats(s *Stats, bb int) {
	data := pterm.TableData{{"Player", "Hands", "Won", "Split", "Net", "bb/100", "Check", "Call", "Raise", "Fold"}}
	for i, st := range s.Seats {
		data = append(data, []string{
			s.Names[i],
			strconv.Itoa(st.Hands),
			strconv.Itoa(st.Wins),
			strconv.Itoa(st.Splits),
			strconv.Itoa(st.NetChips),
			fmt.Sprintf("%.1f", st.BBPer100(bb)),
			strconv.Itoa(st.Actions.Check),
			strconv.Itoa(st.Actions.Call),
			strconv.Itoa(st.Actions.Raise),
			strconv.Itoa(st.Actions.Fold),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

//
// ===== duel =====
//

// runDuel plays two heuristic agents against each other for DUEL_HANDS
// hands. A busted table is re-seated with fresh stacks.
func runDuel(ctx context.Context, cfg *config.Config, logger *log.Logger, db *store.DB, seeds *seeder) error {
	names := [2]string{cfg.AgentName + "-A", cfg.AgentName + "-B"}
	stats := NewStats(names)
	sink := sinks(cfg, logger, db, stats)
	seats := [2]agent.Agent{
		newAgent(cfg, names[0], seeds.rng(), logger),
		newAgent(cfg, names[1], seeds.rng(), logger),
	}

	logger.Info("duel", "hands", cfg.DuelHands, "sb", cfg.SB, "bb", cfg.BB, "stack", cfg.StartStack)
	newTable := func() *engine.Table {
		return engine.NewTable(cfg.Engine(), seeds.rng(),
			engine.WithNames(names[0], names[1]),
			engine.WithSink(sink),
			engine.WithLogger(logger.WithPrefix("table")),
		)
	}
	tbl := newTable()
	tables := 1
	for played := 0; played < cfg.DuelHands; played++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("duel interrupted", "played", played)
			break
		}
		if _, err := tbl.StartHand(); errors.Is(err, engine.ErrGameOver) {
			tbl = newTable()
			tables++
			played--
			continue
		} else if err != nil {
			return err
		}
		if err := drive(ctx, tbl, seats, nil); err != nil {
			return err
		}
	}

	a := stats.Seats[engine.SeatA]
	rate, lo, hi := a.WinRate()
	mlo, mhi := stats.MarginCI(seeds.rng(), 1000)
	logger.Info("duel finished", "tables", tables, "hands", a.Hands,
		"winrate", fmt.Sprintf("%.3f [%.3f, %.3f]", rate, lo, hi),
		"margin_a", fmt.Sprintf("[%.1f, %.1f]", mlo, mhi))
	printStats(stats, cfg.BB)
	return nil
}

//
// ===== HTTP seat =====
//

func runServer(ctx context.Context, cfg *config.Config, logger *log.Logger, db *store.DB, seeds *seeder) error {
	names := [2]string{cfg.PlayerName, cfg.AgentName}
	stats := NewStats(names)
	tbl := engine.NewTable(cfg.Engine(), seeds.rng(),
		engine.WithNames(names[0], names[1]),
		engine.WithSink(sinks(cfg, logger, db, stats)),
		engine.WithLogger(logger.WithPrefix("table")),
	)
	bot := newAgent(cfg, cfg.AgentName, seeds.rng(), logger)
	svc := newSeatService(tbl, engine.SeatA, bot, stats, logger)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: Router(svc), ReadTimeout: 15 * time.Second, WriteTimeout: 15 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	logger.Info("listening (Ctrl+C to stop)", "url", "http://localhost:"+cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
