package handlers

import (
	"drift-bottle/internal/database"
	"drift-bottle/internal/engine"
	"drift-bottle/internal/spotify"
	"drift-bottle/internal/utils"
	"drift-bottle/internal/websocket"
	"time"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Hub            *websocket.Hub
	Spotify        *spotify.Client
	Metrics        *utils.MetricsCollector
	MongoDB        *database.MongoDB
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	context *actor.RootContext,
	engine *engine.Engine,
	hub *websocket.Hub,
	spotifyClient *spotify.Client,
	metrics *utils.MetricsCollector,
	mongodb *database.MongoDB,
) *Server {
	return &Server{
		System:         system,
		Context:        context,
		Engine:         engine,
		Hub:            hub,
		Spotify:        spotifyClient,
		Metrics:        metrics,
		MongoDB:        mongodb,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}
