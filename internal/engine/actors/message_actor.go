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
	"github.com/lithammer/shortuuid/v4"
)

// Message types for MessageActor
type (
	CreateMessageMsg struct {
		SenderID      uuid.UUID
		RecipientID   uuid.UUID
		SenderAlias   string
		Content       string
		MoodEmoji     string
		TrackID       string
		TrackName     string
		TrackArtist   string
		TrackAlbumArt string
		TrackURI      string
	}

	GetMessageByTokenMsg struct {
		Token string
	}

	GetInboxMsg struct {
		UserID uuid.UUID
	}

	DeleteMessageMsg struct {
		MessageID uuid.UUID
		UserID    uuid.UUID // The user deleting the message
	}
)

// InboxView aggregates a user's received and sent messages with per-token
// reaction lists and reply counts, so the client renders without any
// per-message lookups.
type InboxView struct {
	Received    []*models.Message             `json:"received"`
	Sent        []*models.Message             `json:"sent"`
	Reactions   map[string][]*models.Reaction `json:"reactions"`
	ReplyCounts map[string]int                `json:"replyCounts"`
}

// MessageActor manages bottle messages
type MessageActor struct {
	db       *database.MongoDB
	notifier *actor.PID
	metrics  *utils.MetricsCollector
}

func NewMessageActor(db *database.MongoDB, notifier *actor.PID, metrics *utils.MetricsCollector) actor.Actor {
	return &MessageActor{
		db:       db,
		notifier: notifier,
		metrics:  metrics,
	}
}

func (a *MessageActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *CreateMessageMsg:
		a.handleCreateMessage(context, msg)
	case *GetMessageByTokenMsg:
		a.handleGetByToken(context, msg)
	case *GetInboxMsg:
		a.handleGetInbox(context, msg)
	case *DeleteMessageMsg:
		a.handleDeleteMessage(context, msg)
	}
}

func (a *MessageActor) handleCreateMessage(context actor.Context, msg *CreateMessageMsg) {
	startTime := time.Now()

	newMessage := &models.Message{
		ID:            uuid.New(),
		TokenID:       shortuuid.New(),
		SenderID:      msg.SenderID,
		RecipientID:   msg.RecipientID,
		SenderAlias:   msg.SenderAlias,
		Content:       msg.Content,
		MoodEmoji:     msg.MoodEmoji,
		TrackID:       msg.TrackID,
		TrackName:     msg.TrackName,
		TrackArtist:   msg.TrackArtist,
		TrackAlbumArt: msg.TrackAlbumArt,
		TrackURI:      msg.TrackURI,
		CreatedAt:     time.Now(),
	}

	ctx := stdctx.Background()
	if err := a.db.SaveMessage(ctx, newMessage); err != nil {
		log.Printf("Failed to save message: %v", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save message", err))
		return
	}

	// Recipient-filtered stream: the event already names its one relevant
	// user, no follow-up lookup needed.
	if a.notifier != nil {
		context.Send(a.notifier, &MessageInsertedEvent{
			RecipientID:  newMessage.RecipientID,
			MessageToken: newMessage.TokenID,
		})
	}

	a.metrics.AddOperationLatency("create_message", time.Since(startTime))
	context.Respond(newMessage)
}

func (a *MessageActor) handleGetByToken(context actor.Context, msg *GetMessageByTokenMsg) {
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
	context.Respond(message)
}

// handleGetInbox loads both message lists, then batch-loads reactions and
// replies for the union of tokens with one $in query per collection. Cost
// stays linear in message count instead of one lookup per message.
func (a *MessageActor) handleGetInbox(context actor.Context, msg *GetInboxMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	received, err := a.db.GetReceivedMessages(ctx, msg.UserID)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to get received messages", err))
		return
	}

	sent, err := a.db.GetSentMessages(ctx, msg.UserID)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to get sent messages", err))
		return
	}

	tokens := make([]string, 0, len(received)+len(sent))
	for _, m := range received {
		tokens = append(tokens, m.TokenID)
	}
	for _, m := range sent {
		tokens = append(tokens, m.TokenID)
	}

	reactions, err := a.db.GetReactionsByTokens(ctx, tokens)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to get reactions", err))
		return
	}

	replies, err := a.db.GetRepliesByTokens(ctx, tokens)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to get replies", err))
		return
	}

	view := BuildInboxView(received, sent, reactions, replies)

	a.metrics.AddOperationLatency("get_inbox", time.Since(startTime))
	context.Respond(view)
}

func (a *MessageActor) handleDeleteMessage(context actor.Context, msg *DeleteMessageMsg) {
	ctx := stdctx.Background()

	message, err := a.db.GetMessage(ctx, msg.MessageID)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to get message", err))
		return
	}

	// Only a party to the message may delete it.
	if message.SenderID != msg.UserID && message.RecipientID != msg.UserID {
		context.Respond(utils.NewUnauthorizedError("not a party to this message"))
		return
	}

	if err := a.db.DeleteMessage(ctx, msg.MessageID); err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete message", err))
		return
	}

	// Reactions and replies keyed to the token are retained; they simply
	// stop joining to anything.
	context.Respond(true)
}

// BuildInboxView indexes batch-loaded reaction and reply rows by token.
// Rows whose token matches no listed message are ignored.
func BuildInboxView(received, sent []*models.Message, reactions []*models.Reaction, replies []*models.Reply) *InboxView {
	view := &InboxView{
		Received:    received,
		Sent:        sent,
		Reactions:   make(map[string][]*models.Reaction),
		ReplyCounts: make(map[string]int),
	}
	if view.Received == nil {
		view.Received = []*models.Message{}
	}
	if view.Sent == nil {
		view.Sent = []*models.Message{}
	}

	known := make(map[string]bool, len(received)+len(sent))
	for _, m := range received {
		known[m.TokenID] = true
	}
	for _, m := range sent {
		known[m.TokenID] = true
	}

	for _, r := range reactions {
		if known[r.MessageToken] {
			view.Reactions[r.MessageToken] = append(view.Reactions[r.MessageToken], r)
		}
	}
	for _, r := range replies {
		if known[r.MessageToken] {
			view.ReplyCounts[r.MessageToken]++
		}
	}

	return view
}
