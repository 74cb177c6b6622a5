package actors

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	stdctx "context"

	"drift-bottle/internal/models"
	"drift-bottle/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAlertSender records every alert the notifier pushes.
type fakeAlertSender struct {
	mu     sync.Mutex
	alerts map[uuid.UUID][]AlertPayload
}

func newFakeAlertSender() *fakeAlertSender {
	return &fakeAlertSender{alerts: make(map[uuid.UUID][]AlertPayload)}
}

func (f *fakeAlertSender) SendDirectMessage(targetUserID uuid.UUID, payload []byte) {
	var alert AlertPayload
	if err := json.Unmarshal(payload, &alert); err != nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts[targetUserID] = append(f.alerts[targetUserID], alert)
}

func (f *fakeAlertSender) alertsFor(userID uuid.UUID) []AlertPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]AlertPayload(nil), f.alerts[userID]...)
}

func (f *fakeAlertSender) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, alerts := range f.alerts {
		n += len(alerts)
	}
	return n
}

// fakeMessageLookup serves parent messages by token from a fixed map.
type fakeMessageLookup struct {
	messages map[string]*models.Message
}

func (f *fakeMessageLookup) GetMessageByToken(_ stdctx.Context, token string) (*models.Message, error) {
	if msg, ok := f.messages[token]; ok {
		return msg, nil
	}
	return nil, utils.NewMessageNotFoundError(token)
}

func spawnNotifier(t *testing.T, db MessageLookup, hub AlertSender) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewNotifierActor(db, hub)
	})
	return system, system.Root.Spawn(props)
}

func TestNotifierMessageInserted(t *testing.T) {
	sender := newFakeAlertSender()
	system, pid := spawnNotifier(t, &fakeMessageLookup{}, sender)

	recipient := uuid.New()
	system.Root.Send(pid, &MessageInsertedEvent{
		RecipientID:  recipient,
		MessageToken: "tok-1",
	})

	require.Eventually(t, func() bool {
		return len(sender.alertsFor(recipient)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	alerts := sender.alertsFor(recipient)
	assert.Equal(t, AlertMessageReceived, alerts[0].Type)
	assert.Equal(t, "tok-1", alerts[0].MessageToken)
}

func TestNotifierReactionAlertsSenderOnly(t *testing.T) {
	senderID := uuid.New()
	recipientID := uuid.New()
	db := &fakeMessageLookup{messages: map[string]*models.Message{
		"tok-1": {TokenID: "tok-1", SenderID: senderID, RecipientID: recipientID},
	}}

	hub := newFakeAlertSender()
	system, pid := spawnNotifier(t, db, hub)

	system.Root.Send(pid, &ReactionInsertedEvent{
		MessageToken: "tok-1",
		ReactionType: models.ReactionFunny,
	})

	require.Eventually(t, func() bool {
		return len(hub.alertsFor(senderID)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	alerts := hub.alertsFor(senderID)
	assert.Equal(t, AlertReactionReceived, alerts[0].Type)
	assert.Equal(t, string(models.ReactionFunny), alerts[0].ReactionType)

	// The recipient reacted; they get no alert for their own action.
	assert.Empty(t, hub.alertsFor(recipientID))
}

func TestNotifierReplyAlertsBothParties(t *testing.T) {
	senderID := uuid.New()
	recipientID := uuid.New()
	db := &fakeMessageLookup{messages: map[string]*models.Message{
		"tok-1": {TokenID: "tok-1", SenderID: senderID, RecipientID: recipientID},
	}}

	hub := newFakeAlertSender()
	system, pid := spawnNotifier(t, db, hub)

	system.Root.Send(pid, &ReplyInsertedEvent{MessageToken: "tok-1"})

	require.Eventually(t, func() bool {
		return len(hub.alertsFor(senderID)) == 1 && len(hub.alertsFor(recipientID)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, AlertReplyReceived, hub.alertsFor(senderID)[0].Type)
	assert.Equal(t, AlertReplyReceived, hub.alertsFor(recipientID)[0].Type)
}

func TestNotifierDropsEventsForMissingParent(t *testing.T) {
	hub := newFakeAlertSender()
	system, pid := spawnNotifier(t, &fakeMessageLookup{}, hub)

	// Parent deleted between the write and the lookup. Both events are
	// dropped silently; a follow-up event for a live parent still works.
	system.Root.Send(pid, &ReactionInsertedEvent{MessageToken: "gone", ReactionType: models.ReactionLike})
	system.Root.Send(pid, &ReplyInsertedEvent{MessageToken: "gone"})

	recipient := uuid.New()
	system.Root.Send(pid, &MessageInsertedEvent{RecipientID: recipient, MessageToken: "tok-2"})

	require.Eventually(t, func() bool {
		return len(hub.alertsFor(recipient)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, hub.total())
}
