package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/spawnpool/internal/config"
	"github.com/l1jgo/spawnpool/internal/core/event"
	coresys "github.com/l1jgo/spawnpool/internal/core/system"
	"github.com/l1jgo/spawnpool/internal/data"
	"github.com/l1jgo/spawnpool/internal/persist"
	"github.com/l1jgo/spawnpool/internal/pool"
	"github.com/l1jgo/spawnpool/internal/scripting"
	"github.com/l1jgo/spawnpool/internal/spawn"
	"github.com/l1jgo/spawnpool/internal/system"
	"github.com/l1jgo/spawnpool/internal/world"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	ticks      int
}

func newRootCmd() *cobra.Command {
	opts := options{configPath: "config/spawnd.toml"}
	if p := os.Getenv("SPAWND_CONFIG"); p != "" {
		opts.configPath = p
	}

	cmd := &cobra.Command{
		Use:           "spawnd",
		Short:         "Run the spawn scheduler and object pool game loop",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.ticks < 0 {
				return fmt.Errorf("--ticks must not be negative, got %d", opts.ticks)
			}
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", opts.configPath, "path to the TOML config (env SPAWND_CONFIG)")
	cmd.Flags().IntVar(&opts.ticks, "ticks", 0, "stop after this many frames (0 runs until signaled)")
	return cmd
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run(parent context.Context, opts options) error {
	if parent == nil {
		parent = context.Background()
	}

	// 1. Load config
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	topology, err := pool.ParseTopology(cfg.Server.Topology)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Optional journal database
	var journal system.JournalWriter
	if cfg.Database.DSN != "" {
		printSection("Database")
		ctx, cancel := context.WithTimeout(parent, 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Database, log.Named("db"))
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		version, err := persist.RunMigrations(ctx, db.Pool, log.Named("db"))
		cancel()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		journal = persist.NewJournalRepo(db)
		printOK(fmt.Sprintf("PostgreSQL connected, schema version %d", version))
		fmt.Println()
	}

	// 4. Data tables and scripts
	printSection("Data")
	templates, err := data.LoadTemplateTable(cfg.Data.Templates)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	spawns, err := data.LoadSpawnList(cfg.Data.SpawnList)
	if err != nil {
		return fmt.Errorf("load spawn list: %w", err)
	}
	printStat("Templates", templates.Count())
	printStat("Spawn entries", len(spawns))

	var scripts *scripting.Engine
	if cfg.Scripting.Dir != "" {
		scripts, err = scripting.NewEngine(cfg.Scripting.Dir, log.Named("lua"))
		if err != nil {
			return fmt.Errorf("load scripts: %w", err)
		}
		defer scripts.Close()
		if scripts.HasHook("on_spawn") {
			printOK("Lua on_spawn hook loaded")
		}
	}
	fmt.Println()

	// 5. World, spawn manager and systems
	ws := world.NewState()
	bus := event.NewBus()
	mgr := spawn.NewManager(world.NewFactory(ws, templates, scripts, log.Named("world")), spawn.Options{
		SpawnBudget:   cfg.Spawn.SpawnBudget,
		DestroyBudget: cfg.Spawn.DestroyBudget,
		Topology:      topology,
		Bus:           bus,
		Log:           log,
	})

	runner := coresys.NewRunner()
	respawn := system.NewNpcRespawnSystem(ws, mgr, log.Named("respawn"))
	runner.Register(system.NewEventSystem(bus))
	runner.Register(respawn)
	runner.Register(system.NewSpawnSystem(mgr))
	var journalSys *system.JournalSystem
	if journal != nil {
		journalSys = system.NewJournalSystem(bus, journal, nil, log.Named("journal"),
			cfg.Journal.FlushTicks, cfg.Journal.BatchSize)
		runner.Register(journalSys)
	}
	runner.Register(system.NewReclaimSystem(mgr))

	queued := respawn.SpawnAll(spawns)

	// 6. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	log.Info("game loop started",
		zap.String("server", cfg.Server.Name),
		zap.Stringer("topology", topology),
		zap.Duration("tick", cfg.Loop.TickRate),
		zap.Duration("spawn_budget", cfg.Spawn.SpawnBudget),
		zap.Duration("destroy_budget", cfg.Spawn.DestroyBudget),
		zap.Int("queued", queued),
	)

	statsEvery := int(5 * time.Second / cfg.Loop.TickRate)
	if statsEvery < 1 {
		statsEvery = 1
	}
	frames := 0
loop:
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Loop.TickRate)
			frames++
			if frames%statsEvery == 0 {
				logStats(log, mgr, ws)
			}
			if opts.ticks > 0 && frames >= opts.ticks {
				log.Info("tick limit reached", zap.Int("frames", frames))
				break loop
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			break loop
		case <-parent.Done():
			if err := parent.Err(); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("context ended", zap.Error(err))
			}
			break loop
		}
	}

	// 7. Drain: reclaim everything, empty the pool, write the last events
	mgr.Shutdown()
	bus.SwapBuffers()
	bus.DispatchAll()
	if journalSys != nil {
		journalSys.Flush()
	}
	logStats(log, mgr, ws)
	return nil
}

func logStats(log *zap.Logger, mgr *spawn.Manager, ws *world.State) {
	st := mgr.Stats()
	log.Info("spawn stats",
		zap.Int("npcs", ws.NpcCount()),
		zap.Int("pending", st.Pending),
		zap.Int("retrying", st.Retrying),
		zap.Int("waiting", st.Waiting),
		zap.Int("pooled", st.Pooled),
		zap.Int("reclaim_new", st.ReclaimNew),
		zap.Int("reclaim_carry", st.ReclaimOld),
	)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
