package actors

import (
	"encoding/json"
	"log"

	stdctx "context"

	"drift-bottle/internal/models"
	"drift-bottle/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Insertion events emitted by the domain actors after a successful write.
type (
	MessageInsertedEvent struct {
		RecipientID  uuid.UUID
		MessageToken string
	}

	ReactionInsertedEvent struct {
		MessageToken string
		ReactionType models.ReactionType
	}

	ReplyInsertedEvent struct {
		MessageToken string
	}
)

// Alert types delivered over the websocket connection.
const (
	AlertMessageReceived  = "message_received"
	AlertReactionReceived = "reaction_received"
	AlertReplyReceived    = "reply_received"
)

// AlertPayload is the JSON body pushed to a user's open connections.
type AlertPayload struct {
	Type         string `json:"type"`
	MessageToken string `json:"messageToken"`
	ReactionType string `json:"reactionType,omitempty"`
}

// AlertSender is the hub-facing side of the notifier. Satisfied by
// *websocket.Hub.
type AlertSender interface {
	SendDirectMessage(targetUserID uuid.UUID, payload []byte)
}

// MessageLookup is the store-facing side of the notifier. Satisfied by
// *database.MongoDB.
type MessageLookup interface {
	GetMessageByToken(ctx stdctx.Context, token string) (*models.Message, error)
}

// NotifierActor turns insertion events into per-user transient alerts.
//
// Message events arrive pre-filtered (they carry their one relevant user).
// Reaction and reply events are unfiltered, so the notifier performs a
// follow-up lookup of the parent message to decide relevance. A parent
// that has vanished (deleted concurrently) is a normal terminal outcome:
// the event is dropped with no alert and no error. Lookup transport
// failures are logged and dropped the same way; alerts are best-effort.
type NotifierActor struct {
	db  MessageLookup
	hub AlertSender
}

func NewNotifierActor(db MessageLookup, hub AlertSender) actor.Actor {
	return &NotifierActor{
		db:  db,
		hub: hub,
	}
}

func (a *NotifierActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *MessageInsertedEvent:
		a.handleMessageInserted(msg)
	case *ReactionInsertedEvent:
		a.handleReactionInserted(msg)
	case *ReplyInsertedEvent:
		a.handleReplyInserted(msg)
	}
}

func (a *NotifierActor) handleMessageInserted(evt *MessageInsertedEvent) {
	// Exact server-side filter: every event is relevant to its recipient.
	a.send(evt.RecipientID, &AlertPayload{
		Type:         AlertMessageReceived,
		MessageToken: evt.MessageToken,
	})
}

func (a *NotifierActor) handleReactionInserted(evt *ReactionInsertedEvent) {
	parent, ok := a.lookupParent(evt.MessageToken)
	if !ok {
		return
	}

	// Reactions concern the original sender only; the recipient reacted
	// and needs no alert, third parties never do.
	a.send(parent.SenderID, &AlertPayload{
		Type:         AlertReactionReceived,
		MessageToken: evt.MessageToken,
		ReactionType: string(evt.ReactionType),
	})
}

func (a *NotifierActor) handleReplyInserted(evt *ReplyInsertedEvent) {
	parent, ok := a.lookupParent(evt.MessageToken)
	if !ok {
		return
	}

	// Both thread parties hear about every reply, including the author's
	// own echoing back. At-least-once by design.
	payload := &AlertPayload{
		Type:         AlertReplyReceived,
		MessageToken: evt.MessageToken,
	}
	a.send(parent.SenderID, payload)
	a.send(parent.RecipientID, payload)
}

// lookupParent is the enrichment fetch for unfiltered streams. ok is false
// for both NotFound (raced with a delete) and transport errors; the caller
// drops the event either way.
func (a *NotifierActor) lookupParent(token string) (*models.Message, bool) {
	ctx := stdctx.Background()
	parent, err := a.db.GetMessageByToken(ctx, token)
	if err != nil {
		if !utils.IsErrorCode(err, utils.ErrMessageNotFound) {
			log.Printf("Notifier: parent lookup failed for token %s: %v", token, err)
		}
		return nil, false
	}
	return parent, true
}

func (a *NotifierActor) send(userID uuid.UUID, payload *AlertPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Notifier: failed to marshal alert: %v", err)
		return
	}
	a.hub.SendDirectMessage(userID, body)
}
