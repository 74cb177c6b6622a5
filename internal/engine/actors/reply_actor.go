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

// Message types for ReplyActor
type (
	CreateReplyMsg struct {
		MessageToken string
		AuthorID     uuid.UUID
		Content      string
	}

	GetThreadMsg struct {
		Token string
	}
)

// ThreadView is one message plus its ordered reply history.
type ThreadView struct {
	Message *models.Message `json:"message"`
	Replies []*models.Reply `json:"replies"`
}

// ReplyActor manages thread replies. Unlike reactions, appending a reply
// requires the parent message: the reply's role label is derived from the
// author's relationship to it.
type ReplyActor struct {
	db       *database.MongoDB
	notifier *actor.PID
	metrics  *utils.MetricsCollector
}

func NewReplyActor(db *database.MongoDB, notifier *actor.PID, metrics *utils.MetricsCollector) actor.Actor {
	return &ReplyActor{
		db:       db,
		notifier: notifier,
		metrics:  metrics,
	}
}

func (a *ReplyActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *CreateReplyMsg:
		a.handleCreateReply(context, msg)
	case *GetThreadMsg:
		a.handleGetThread(context, msg)
	}
}

func (a *ReplyActor) handleCreateReply(context actor.Context, msg *CreateReplyMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	parent, err := a.db.GetMessageByToken(ctx, msg.MessageToken)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to get parent message", err))
		return
	}

	reply := &models.Reply{
		ID:           uuid.New(),
		MessageToken: parent.TokenID,
		SenderType:   models.RoleFor(msg.AuthorID, parent),
		Content:      msg.Content,
		CreatedAt:    time.Now(),
	}

	if err := a.db.SaveReply(ctx, reply); err != nil {
		log.Printf("Failed to save reply: %v", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save reply", err))
		return
	}

	// Unfiltered stream; both thread parties get notified, including the
	// author's own listener.
	if a.notifier != nil {
		context.Send(a.notifier, &ReplyInsertedEvent{
			MessageToken: reply.MessageToken,
		})
	}

	a.metrics.AddOperationLatency("create_reply", time.Since(startTime))
	context.Respond(reply)
}

func (a *ReplyActor) handleGetThread(context actor.Context, msg *GetThreadMsg) {
	ctx := stdctx.Background()

	message, err := a.db.GetMessageByToken(ctx, msg.Token)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to get message", err))
		return
	}

	replies, err := a.db.GetRepliesByToken(ctx, msg.Token)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to get replies", err))
		return
	}
	if replies == nil {
		replies = []*models.Reply{}
	}

	context.Respond(&ThreadView{
		Message: message,
		Replies: replies,
	})
}
