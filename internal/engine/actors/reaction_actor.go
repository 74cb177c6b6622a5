package actors

import (
	"log"
	"time"

	stdctx "context"

	"drift-bottle/internal/database"
	"drift-bottle/internal/models"
	"drift-bottle/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for ReactionActor
type CreateReactionMsg struct {
	MessageToken string
	ReactionType models.ReactionType
}

// ReactionActor records reactions against message tokens. It never checks
// the parent message: an orphaned reaction row is harmless and simply
// won't join to anything. Relevance filtering for notifications happens in
// the notifier, after the fact.
type ReactionActor struct {
	db       *database.MongoDB
	notifier *actor.PID
	metrics  *utils.MetricsCollector
}

func NewReactionActor(db *database.MongoDB, notifier *actor.PID, metrics *utils.MetricsCollector) actor.Actor {
	return &ReactionActor{
		db:       db,
		notifier: notifier,
		metrics:  metrics,
	}
}

func (a *ReactionActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *CreateReactionMsg:
		a.handleCreateReaction(context, msg)
	}
}

func (a *ReactionActor) handleCreateReaction(context actor.Context, msg *CreateReactionMsg) {
	startTime := time.Now()

	if !models.ValidReactionType(msg.ReactionType) {
		context.Respond(utils.NewAppError(utils.ErrInvalidReaction, "Unknown reaction type: "+string(msg.ReactionType), nil))
		return
	}

	reaction := &models.Reaction{
		ID:           uuid.New(),
		MessageToken: msg.MessageToken,
		ReactionType: msg.ReactionType,
		CreatedAt:    time.Now(),
	}

	ctx := stdctx.Background()
	if err := a.db.SaveReaction(ctx, reaction); err != nil {
		log.Printf("Failed to save reaction: %v", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save reaction", err))
		return
	}

	// Unfiltered stream: the notifier must look the parent up itself to
	// decide who, if anyone, cares.
	if a.notifier != nil {
		context.Send(a.notifier, &ReactionInsertedEvent{
			MessageToken: reaction.MessageToken,
			ReactionType: reaction.ReactionType,
		})
	}

	a.metrics.AddOperationLatency("create_reaction", time.Since(startTime))
	context.Respond(reaction)
}
