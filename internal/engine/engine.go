package engine

import (
	"drift-bottle/internal/database"
	"drift-bottle/internal/engine/actors"
	"drift-bottle/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine spawns the domain actors and hands out their PIDs. The notifier
// is spawned first so the writers can address it.
type Engine struct {
	profileActor  *actor.PID
	messageActor  *actor.PID
	reactionActor *actor.PID
	replyActor    *actor.PID
	notifierActor *actor.PID
}

func NewEngine(system *actor.ActorSystem, db *database.MongoDB, hub actors.AlertSender, metrics *utils.MetricsCollector) *Engine {
	context := system.Root

	notifierProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewNotifierActor(db, hub)
	})
	notifierPID := context.Spawn(notifierProps)

	profileProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewProfileActor(db, metrics)
	})
	profilePID := context.Spawn(profileProps)

	messageProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewMessageActor(db, notifierPID, metrics)
	})
	messagePID := context.Spawn(messageProps)

	reactionProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewReactionActor(db, notifierPID, metrics)
	})
	reactionPID := context.Spawn(reactionProps)

	replyProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewReplyActor(db, notifierPID, metrics)
	})
	replyPID := context.Spawn(replyProps)

	return &Engine{
		profileActor:  profilePID,
		messageActor:  messagePID,
		reactionActor: reactionPID,
		replyActor:    replyPID,
		notifierActor: notifierPID,
	}
}

// GetProfileActor returns the PID of the profile actor
func (e *Engine) GetProfileActor() *actor.PID {
	return e.profileActor
}

// GetMessageActor returns the PID of the message actor
func (e *Engine) GetMessageActor() *actor.PID {
	return e.messageActor
}

// GetReactionActor returns the PID of the reaction actor
func (e *Engine) GetReactionActor() *actor.PID {
	return e.reactionActor
}

// GetReplyActor returns the PID of the reply actor
func (e *Engine) GetReplyActor() *actor.PID {
	return e.replyActor
}

// GetNotifierActor returns the PID of the notifier actor
func (e *Engine) GetNotifierActor() *actor.PID {
	return e.notifierActor
}
