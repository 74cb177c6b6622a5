package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	stdctx "context"

	"drift-bottle/internal/config"
	"drift-bottle/internal/database"
	"drift-bottle/internal/engine"
	"drift-bottle/internal/handlers"
	"drift-bottle/internal/middleware"
	"drift-bottle/internal/spotify"
	"drift-bottle/internal/utils"
	"drift-bottle/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	middleware.SetJWTSecret(cfg.JWTSecret)

	db, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "err", err)
		os.Exit(1)
	}
	defer db.Close(stdctx.Background())

	if err := db.EnsureIndexes(stdctx.Background()); err != nil {
		slog.Error("Failed to ensure indexes", "err", err)
		os.Exit(1)
	}

	hub := websocket.NewHub()
	go hub.Run()

	metrics := utils.NewMetricsCollector()

	system := actor.NewActorSystem()
	driftEngine := engine.NewEngine(system, db, hub, metrics)

	spotifyClient := spotify.NewClient(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)

	server := handlers.NewServer(
		system,
		system.Root,
		driftEngine,
		hub,
		spotifyClient,
		metrics,
		db,
	)

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	handler := middleware.CORSMiddleware(corsConfig)(mux)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("Starting server", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, handler); err != nil {
		slog.Error("Server failed", "err", err)
		os.Exit(1)
	}
}
