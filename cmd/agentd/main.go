package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/config"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	"github.com/kumpelblase2/agentd/internal/core/event"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/data"
	"github.com/kumpelblase2/agentd/internal/handler"
	"github.com/kumpelblase2/agentd/internal/login"
	gonet "github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/net/packet"
	"github.com/kumpelblase2/agentd/internal/persist"
	"github.com/kumpelblase2/agentd/internal/scripting"
	"github.com/kumpelblase2/agentd/internal/system"
	"github.com/kumpelblase2/agentd/internal/web"
	"github.com/kumpelblase2/agentd/internal/world"
	"github.com/kumpelblase2/agentd/internal/worlddata"
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

func run() error {
	configPath := flag.String("config", "agentd.toml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("啟動世界伺服器",
		zap.String("name", cfg.Server.Name),
		zap.Int("server_id", cfg.Server.ID),
		zap.Int("tick_rate", cfg.Game.DesiredTicks),
	)

	// Static data: missing or corrupt files are fatal.
	tables, err := data.Load(cfg.Game.DataLocation)
	if err != nil {
		return err
	}
	terrain, err := worlddata.LoadTerrain(filepath.Join(cfg.Game.DataLocation, "terrain.yaml"))
	if err != nil {
		return err
	}
	engine, err := scripting.NewEngine(filepath.Join(cfg.Game.DataLocation, "scripts"), log)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return err
	}

	charRepo := persist.NewCharacterRepo(db)
	accountRepo := persist.NewAccountRepo(db, uint16(cfg.Server.ID))
	mallRepo := persist.NewMallRepo(db, uint16(cfg.Server.ID))
	walRepo := persist.NewWALRepo(db)
	saver := persist.NewSaver(charRepo, mallRepo, walRepo, log)

	capacity := login.NewCapacityController(cfg.Server.MaxPlayerCount)
	queue := login.NewQueue(capacity, cfg.Server.MaxPlayerCount)

	stores := world.NewStores()
	bus := event.NewBus()
	deps := &handler.Deps{
		Config:    cfg,
		Stores:    stores,
		Tables:    tables,
		Terrain:   terrain,
		Queue:     queue,
		Bus:       bus,
		Scripting: engine,
		CharRepo:  charRepo,
		CharLoads: handler.NewCharacterLoads(charRepo, uint16(cfg.Server.ID)),
		Saver:     saver,
		Log:       log,
	}

	subscribeNotifications(bus, stores, log)

	spawnerCount := setupSpawners(stores, tables, cfg.Spawner)
	log.Info("生成器就緒", zap.Int("count", spawnerCount))

	bindAddr := fmt.Sprintf("%s:%d", cfg.Server.ListenAddress, cfg.Server.ListenPort)
	netServer, err := gonet.NewServer(bindAddr, cfg.Network.InQueueSize, cfg.Network.OutQueueSize, log)
	if err != nil {
		return err
	}
	defer netServer.Shutdown()

	registry := packet.NewRegistry(log)
	handler.RegisterAll(registry, deps)

	buffer := system.NewUpdateBuffer()

	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewIngressSystem(netServer, registry, deps, cfg.Network.MaxPacketsPerTick, log))
	runner.Register(system.NewCharLoadSystem(deps))
	runner.Register(system.NewIntentSystem(deps))
	runner.Register(system.NewTransitionSystem(stores))
	runner.Register(system.NewMovementSystem(deps))
	runner.Register(system.NewActionSystem(deps))
	runner.Register(system.NewLogoutSystem(deps))
	runner.Register(system.NewSpawnerSystem(deps))
	runner.Register(system.NewCombatSystem(deps))
	runner.Register(system.NewDeathSystem(deps))
	runner.Register(system.NewDropSystem(deps))
	runner.Register(system.NewRegenSystem(stores))
	runner.Register(system.NewVisibilitySystem(stores))
	runner.Register(system.NewCollectionSystem(stores, buffer))
	runner.Register(system.NewDistributionSystem(stores, buffer))
	runner.Register(system.NewPersistenceSystem(deps))
	runner.Register(system.NewCleanupSystem(deps))

	webServer := web.NewServer(
		queue,
		capacity,
		accountRepo,
		cfg.Server.ExternalAddress,
		uint16(cfg.Server.ListenPort),
		uint16(cfg.Server.RPCPort),
		log,
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		netServer.AcceptLoop()
		return nil
	})
	group.Go(func() error {
		return webServer.Run(groupCtx)
	})
	group.Go(func() error {
		return saver.Run(groupCtx)
	})
	group.Go(func() error {
		runTickLoop(groupCtx, runner, cfg.Game.DesiredTicks, log)
		return nil
	})

	log.Info("伺服器就緒",
		zap.String("bind", bindAddr),
		zap.Int("rpc_port", cfg.Server.RPCPort),
	)

	err = group.Wait()
	if err != nil && err != context.Canceled {
		return err
	}
	log.Info("伺服器關閉")
	return nil
}

// runTickLoop drives the fixed-rate simulation. The loop never catches up:
// an overlong tick is logged as overload and the next slot starts late.
func runTickLoop(ctx context.Context, runner *coresys.Runner, desiredTicks int, log *zap.Logger) {
	if desiredTicks <= 0 {
		desiredTicks = 30
	}
	timePerTick := time.Second / time.Duration(desiredTicks)
	delta := timePerTick

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		start := time.Now()
		runner.Tick(delta)
		work := time.Since(start)

		if work > timePerTick {
			log.Warn("伺服器過載，無法跟上節拍",
				zap.Duration("overload", work-timePerTick),
			)
			delta = work
		} else {
			time.Sleep(timePerTick - work)
			delta = timePerTick
		}
	}
}

// subscribeNotifications wires the cross-tick bus events that turn into
// world-wide notifications or log lines.
func subscribeNotifications(bus *event.Bus, stores *world.Stores, log *zap.Logger) {
	event.Subscribe(bus, func(ev event.UniqueKilled) {
		text := fmt.Sprintf("unique %d has been slain", ev.RefID)
		if ev.Player != "" {
			text = fmt.Sprintf("unique %d has been slain by %s", ev.RefID, ev.Player)
		}
		stores.Sessions.Each(func(_ ecs.EntityID, sess *gonet.Session) {
			handler.SendNotification(sess, text)
		})
	})
	event.Subscribe(bus, func(ev event.UniqueSpawned) {
		text := fmt.Sprintf("unique %d has appeared", ev.RefID)
		stores.Sessions.Each(func(_ ecs.EntityID, sess *gonet.Session) {
			handler.SendNotification(sess, text)
		})
	})
	event.Subscribe(bus, func(ev event.ClientDisconnected) {
		log.Info("玩家離線", zap.Uint64("session", ev.SessionID))
	})
}

// setupSpawners creates one spawner entity per configured placement.
func setupSpawners(stores *world.Stores, tables *data.Tables, cfg config.SpawnerConfig) int {
	for _, entry := range tables.Spawners {
		entity := stores.ECS.CreateEntity()
		stores.Positions.Set(entity, &component.Position{
			Location: component.GlobalPosition{X: entry.X, Z: entry.Z},
		})
		stores.Spawners.Set(entity, component.NewSpawner(entry.RefID, float32(cfg.Radius), cfg.Amount))
	}
	return len(tables.Spawners)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
