package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/l1jgo/reaper/internal/config"
	"github.com/l1jgo/reaper/internal/core/ecs"
	"github.com/l1jgo/reaper/internal/core/event"
	coresys "github.com/l1jgo/reaper/internal/core/system"
	"github.com/l1jgo/reaper/internal/core/tick"
	"github.com/l1jgo/reaper/internal/data"
	"github.com/l1jgo/reaper/internal/death"
	"github.com/l1jgo/reaper/internal/persist"
	"github.com/l1jgo/reaper/internal/scripting"
	"github.com/l1jgo/reaper/internal/service"
	"github.com/l1jgo/reaper/internal/system"
	"github.com/l1jgo/reaper/internal/world"
	"github.com/l1jgo/reaper/internal/zone"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int, worldType config.WorldType) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              Reaper  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m         死亡處理 · Go 遊戲伺服器          \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1m伺服器:\033[0m %s \033[90m(編號: %d, 世界: %s)\033[0m\n\n", serverName, serverID, worldType)
}

// displayWidth counts CJK runes as two columns.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if r > 0x7F {
			w += 2
		} else {
			w++
		}
	}
	return w
}

func printSection(title string) {
	lineLen := 46 - displayWidth(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - displayWidth(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("REAPER_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID, cfg.Server.WorldType)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Persistence: PostgreSQL when configured, log-only otherwise
	printSection("資料庫")
	var writer persist.BatchWriter = logWriter{log: log}
	if cfg.Database.DSN != "" {
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		db, err := persist.NewDB(dbCtx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL 連線成功")

		err = persist.RunMigrations(dbCtx, db)
		cancel()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("資料庫遷移完成")
		writer = persist.NewDeathRepo(db)
	} else {
		printOK("未設定 DSN，死亡日誌僅寫入記錄檔")
	}
	journal := persist.NewJournal(writer, cfg.Persistence.JournalQueueSize, log)
	fmt.Println()

	// 4. World state and core loop plumbing
	ws := world.NewState(ecs.NewWorld())
	bus := event.NewBus(log)
	sched := tick.NewScheduler(log)

	// 5. Data tables
	printSection("資料載入")

	npcTable, err := data.LoadNpcTable(cfg.Data.NpcList)
	if err != nil {
		return fmt.Errorf("load npc table: %w", err)
	}
	printStat("NPC 模板", npcTable.Count())

	spawnList, err := data.LoadSpawnList(cfg.Data.SpawnList)
	if err != nil {
		return fmt.Errorf("load spawn list: %w", err)
	}

	bossGroups, err := data.LoadBossGroups(cfg.Data.BossGroups)
	if err != nil {
		return fmt.Errorf("load boss groups: %w", err)
	}
	printStat("首領群組", bossGroups.Count())

	dropTable, err := data.LoadDropTable(cfg.Data.DropList)
	if err != nil {
		return fmt.Errorf("load drop table: %w", err)
	}
	printStat("掉落表", dropTable.Count())

	zoneList, err := data.LoadZoneList(cfg.Data.ZoneList)
	if err != nil {
		return fmt.Errorf("load zone list: %w", err)
	}
	zones := zone.LoadDirectory(zoneList, log)
	printStat("小遊戲區域", len(zoneList))

	npcCount := spawnNpcs(ws, zones, npcTable, bossGroups, spawnList, log)
	printStat("NPC 生成", npcCount)
	fmt.Println()

	// 6. Lua scripts
	printSection("腳本引擎")
	engine, err := scripting.NewEngine(cfg.Lua.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer engine.Close()
	printOK("Lua 腳本載入完成")

	var watcher *scripting.Watcher
	if cfg.Lua.HotReload {
		watcher, err = scripting.NewWatcher(log, engine.Dirs()...)
		if err != nil {
			return fmt.Errorf("lua watcher: %w", err)
		}
		defer watcher.Close()
		printOK("腳本熱重載已啟用")
	}
	fmt.Println()

	// 7. Services and the death resolver
	messenger := service.NewMessenger(ws, log)
	content := service.NewContentManager()
	content.Register("actions", service.InterruptActions)
	printStat("內容掛鉤", len(content.Names()))

	deps := death.Deps{
		Config:    cfg,
		Log:       log,
		Scheduler: sched,
		World:     ws,
		Hooks:     death.BusHooks{Bus: bus},
		Loot:      service.NewLoot(ws, dropTable, sched, bus, cfg, log),
		Stats:     service.NewStatistics(journal, bus, log),
		Perms:     service.NewPermissions(journal, log),
		Slayer:    service.NewSlayer(messenger),
		Messages:  messenger,
		Content:   content,
		Respawn:   engine,
		Zones:     zones,
		Guild:     service.NewWarriorsGuild(ws, messenger),
		Barrows:   service.NewBarrows(messenger),
	}
	if cfg.Server.WorldType == config.WorldDeadman {
		deps.Deadman = service.NewDeadman(bus, log)
	}
	resolver := death.New(deps)

	// 8. Systems
	persistence := system.NewPersistenceSystem(journal, log, cfg.Persistence.BatchIntervalTicks)
	announcer := system.NewDeathAnnouncer(engine, messenger)
	event.Subscribe(bus, persistence.OnMobDied)
	event.Subscribe(bus, announcer.OnMobDied)

	runner := coresys.NewRunner()
	if watcher != nil {
		runner.Register(system.NewScriptReloadSystem(engine, watcher, log))
	}
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewSchedulerSystem(sched))
	runner.Register(system.NewDeathSystem(ws, resolver, log))
	if cfg.Server.WorldType == config.WorldDeadman {
		runner.Register(system.NewDeadmanRankingSystem(ws, messenger))
	}
	runner.Register(persistence)
	runner.Register(system.NewCleanupSystem(ws, log))

	// 9. Start game loop and journal writer
	printSection("伺服器就緒")
	printStat("系統", registeredSystems(runner))
	printReady(fmt.Sprintf("遊戲迴圈啟動 (tick: %s)", cfg.Tick.Rate))
	printReady(fmt.Sprintf("重生點 %s", resolver.Realm()))
	fmt.Println()

	// The journal gets its own context so it drains only after the game loop
	// has handed over the final tick's deaths.
	journalCtx, stopJournal := context.WithCancel(context.Background())
	defer stopJournal()

	var g errgroup.Group
	g.Go(func() error {
		return journal.Run(journalCtx)
	})
	g.Go(func() error {
		defer stopJournal()
		ticker := time.NewTicker(cfg.Tick.Rate)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				runner.Tick(cfg.Tick.Rate)
			case <-ctx.Done():
				log.Info("收到關閉信號", zap.Uint64("tick", runner.Ticks()))
				// Deliver the final tick's deaths to the journal before it drains.
				runner.TickPhase(coresys.PhasePreUpdate, cfg.Tick.Rate)
				persistence.Flush()
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if n := persistence.Dropped(); n > 0 {
		log.Warn("死亡日誌佇列已滿，部分紀錄遺失", zap.Int("dropped", n))
	}
	if n := journal.Dropped(); n > 0 {
		log.Warn("死亡日誌寫入持續失敗，部分紀錄遺失", zap.Int64("dropped", n))
	}
	log.Info("伺服器已停止")
	return nil
}

// spawnNpcs creates the NPC population from the spawn list. Instanced NPCs
// belong to a player's encounter and are never spawned from the list.
func spawnNpcs(ws *world.State, zones *zone.Directory, npcTable *data.NpcTable, groups *data.BossGroupTable, spawns []data.SpawnEntry, log *zap.Logger) int {
	total := 0
	for _, spawn := range spawns {
		tmpl := npcTable.Get(spawn.NpcID)
		if tmpl == nil {
			log.Warn("生成: 未知的 NPC ID", zap.Int32("npc_id", spawn.NpcID))
			continue
		}
		category := tmpl.EntityCategory()
		if category == world.CategoryInstancedNPC {
			log.Warn("生成: 副本 NPC 不可由生成表產生", zap.Int32("npc_id", spawn.NpcID))
			continue
		}
		group := groups.GroupOf(tmpl.NpcID)
		if category == world.CategoryGroupBoss && group == "" {
			log.Warn("生成: 首領不屬於任何群組", zap.Int32("npc_id", spawn.NpcID))
			continue
		}
		count := spawn.Count
		if count < 1 {
			count = 1
		}
		for i := 0; i < count; i++ {
			loc := world.NewLocation(spawn.X, spawn.Y, spawn.MapID)
			npc := world.NewNpc(tmpl.Name, category, tmpl.NpcID, loc, spawn.Heading, tmpl.HP)
			npc.RespawnTicks = tmpl.RespawnTicks
			npc.Npc.Boss = tmpl.Boss
			npc.Npc.Group = group
			ws.Register(npc)
			if category == world.CategoryZoneNPC {
				if err := zones.Spawn(tmpl.Zone, npc); err != nil {
					log.Warn("生成: 區域 NPC 無效", zap.Int32("npc_id", spawn.NpcID), zap.Error(err))
					ws.Unregister(npc)
					continue
				}
			}
			total++
		}
	}
	return total
}

func registeredSystems(r *coresys.Runner) int {
	n := 0
	for p := coresys.PhaseInput; p <= coresys.PhaseCleanup; p++ {
		n += r.Systems(p)
	}
	return n
}

// logWriter stands in for the database when no DSN is configured.
type logWriter struct {
	log *zap.Logger
}

func (w logWriter) WriteBatch(_ context.Context, b persist.Batch) error {
	w.log.Debug("死亡日誌批次",
		zap.Int("deaths", len(b.Deaths)),
		zap.Int("boss_kills", len(b.BossKills)),
		zap.Int("permissions", len(b.Permissions)))
	return nil
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
