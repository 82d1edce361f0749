package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dronefall/dronefall-server-go/internal/config"
	"github.com/dronefall/dronefall-server-go/internal/game"
	"github.com/dronefall/dronefall-server-go/internal/game/cards"
	"github.com/dronefall/dronefall-server-go/internal/repository"
	"github.com/dronefall/dronefall-server-go/internal/server"
	"github.com/dronefall/dronefall-server-go/internal/state"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting dronefall server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	// Create context that listens for termination signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Load the card library
	library, err := cards.LoadLibrary(cfg.Game.CardFile)
	if err != nil {
		logger.Fatal("failed to load card library",
			zap.String("file", cfg.Game.CardFile),
			zap.Error(err),
		)
	}
	logger.Info("card library loaded",
		zap.String("file", cfg.Game.CardFile),
		zap.Int("cards", library.Size()),
	)

	// Initialize the chain-log store. An empty URL runs without persistence.
	var chainLogs *repository.ChainLogRepository
	if cfg.Database.URL != "" {
		db, dbErr := repository.NewDB(ctx, cfg.Database, logger)
		if dbErr != nil {
			logger.Fatal("failed to connect to database", zap.Error(dbErr))
		}
		defer db.Close()
		chainLogs = repository.NewChainLogRepository(db)
		logger.Info("chain-log repository initialized")
	} else {
		logger.Warn("no database configured; chain logs will not be persisted")
	}

	// Initialize the rules engine
	engine := game.NewChainEngine(logger,
		game.WithLaneNameCap(cfg.Game.LaneNameCap),
		game.WithTriggerPause(cfg.Game.TriggerPause),
	)
	logger.Info("chain engine initialized",
		zap.Int("lane_name_cap", cfg.Game.LaneNameCap),
		zap.Duration("trigger_pause", cfg.Game.TriggerPause),
	)

	recorder := game.NewRecorder(logger)
	gateway := server.NewGateway(logger, engine, library, recorder, demoSetup(library))
	if chainLogs != nil {
		gateway.SetChainLog(chainLogs)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", gateway.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: mux,
	}

	go func() {
		logger.Info("starting websocket gateway", zap.String("address", cfg.Server.Address))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Error("websocket gateway error", zap.Error(serveErr))
		}
	}()

	// Wait for termination signal
	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("gateway shutdown error", zap.Error(err))
	}

	logger.Info("dronefall server stopped")
}

// demoSetup deals each seat the full library as a deck with a starting hand.
// Matchmaking and deck selection live outside this server.
func demoSetup(library *cards.Library) server.SetupFunc {
	return func() (*state.PlayerState, *state.PlayerState) {
		acting := state.NewPlayerState("player", "Player")
		opponent := state.NewPlayerState("opponent", "Opponent")
		for _, side := range []*state.PlayerState{acting, opponent} {
			side.Energy = 3
			side.Deck = library.All()
			side.Draw(5)
		}
		return acting, opponent
	}
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
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
