package database

import (
	"context"
	"fmt"
	"time"

	"drift-bottle/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReplyDocument represents reply data in MongoDB
type ReplyDocument struct {
	ID           string    `bson:"_id"`
	MessageToken string    `bson:"messageToken"`
	SenderType   string    `bson:"senderType"`
	Content      string    `bson:"content"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// SaveReply appends a reply to a thread. Replies are append-only.
func (m *MongoDB) SaveReply(ctx context.Context, reply *models.Reply) error {
	doc := ReplyDocument{
		ID:           reply.ID.String(),
		MessageToken: reply.MessageToken,
		SenderType:   string(reply.SenderType),
		Content:      reply.Content,
		CreatedAt:    reply.CreatedAt,
	}
	if _, err := m.Replies.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to save reply: %v", err)
	}
	return nil
}

// GetRepliesByToken retrieves a thread's replies ordered by creation time
// ascending.
func (m *MongoDB) GetRepliesByToken(ctx context.Context, token string) ([]*models.Reply, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := m.Replies.Find(ctx, bson.M{"messageToken": token}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get replies: %v", err)
	}
	defer cursor.Close(ctx)

	return decodeReplies(ctx, cursor)
}

// GetRepliesByTokens retrieves all replies whose parent token is in tokens,
// with a single $in query. The inbox only needs per-token counts but reuses
// the full rows to build them.
func (m *MongoDB) GetRepliesByTokens(ctx context.Context, tokens []string) ([]*models.Reply, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	cursor, err := m.Replies.Find(ctx, bson.M{"messageToken": bson.M{"$in": tokens}})
	if err != nil {
		return nil, fmt.Errorf("failed to get replies: %v", err)
	}
	defer cursor.Close(ctx)

	return decodeReplies(ctx, cursor)
}

func decodeReplies(ctx context.Context, cursor *mongo.Cursor) ([]*models.Reply, error) {
	var replies []*models.Reply
	for cursor.Next(ctx) {
		var doc ReplyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode reply: %v", err)
		}

		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid reply ID: %v", err)
		}

		replies = append(replies, &models.Reply{
			ID:           id,
			MessageToken: doc.MessageToken,
			SenderType:   models.SenderRole(doc.SenderType),
			Content:      doc.Content,
			CreatedAt:    doc.CreatedAt,
		})
	}

	return replies, nil
}
