package database

import (
	"context"
	"fmt"
	"time"

	"drift-bottle/internal/models"
	"drift-bottle/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageDocument represents message data in MongoDB
type MessageDocument struct {
	ID            string    `bson:"_id"`
	TokenID       string    `bson:"tokenId"`
	SenderID      string    `bson:"senderId"`
	RecipientID   string    `bson:"recipientId"`
	SenderAlias   string    `bson:"senderAlias"`
	Content       string    `bson:"content"`
	MoodEmoji     string    `bson:"moodEmoji"`
	TrackID       string    `bson:"spotifyTrackId,omitempty"`
	TrackName     string    `bson:"spotifyTrackName,omitempty"`
	TrackArtist   string    `bson:"spotifyArtist,omitempty"`
	TrackAlbumArt string    `bson:"spotifyAlbumArt,omitempty"`
	TrackURI      string    `bson:"spotifyUri,omitempty"`
	CreatedAt     time.Time `bson:"createdAt"`
}

// SaveMessage inserts a new message. Messages are never mutated in place.
func (m *MongoDB) SaveMessage(ctx context.Context, msg *models.Message) error {
	doc := messageModelToDocument(msg)
	if _, err := m.Messages.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to save message: %v", err)
	}
	return nil
}

// GetMessageByToken retrieves a message by its public token
func (m *MongoDB) GetMessageByToken(ctx context.Context, token string) (*models.Message, error) {
	var doc MessageDocument
	err := m.Messages.FindOne(ctx, bson.M{"tokenId": token}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewMessageNotFoundError(token)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %v", err)
	}
	return convertMessageDocumentToModel(&doc)
}

// GetMessage retrieves a message by its internal id
func (m *MongoDB) GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var doc MessageDocument
	err := m.Messages.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewMessageNotFoundError(id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %v", err)
	}
	return convertMessageDocumentToModel(&doc)
}

// GetReceivedMessages retrieves messages addressed to a user, newest first
func (m *MongoDB) GetReceivedMessages(ctx context.Context, userID uuid.UUID) ([]*models.Message, error) {
	return m.findMessages(ctx, bson.M{"recipientId": userID.String()})
}

// GetSentMessages retrieves messages authored by a user, newest first
func (m *MongoDB) GetSentMessages(ctx context.Context, userID uuid.UUID) ([]*models.Message, error) {
	return m.findMessages(ctx, bson.M{"senderId": userID.String()})
}

func (m *MongoDB) findMessages(ctx context.Context, filter bson.M) ([]*models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.Messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []*models.Message
	for cursor.Next(ctx) {
		var doc MessageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode message: %v", err)
		}
		msg, err := convertMessageDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// DeleteMessage removes a message by internal id. Reactions and replies
// keyed to its token are intentionally left behind; they no longer join to
// anything and render as no-ops.
func (m *MongoDB) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	result, err := m.Messages.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete message: %v", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewMessageNotFoundError(id.String())
	}
	return nil
}

func messageModelToDocument(msg *models.Message) *MessageDocument {
	return &MessageDocument{
		ID:            msg.ID.String(),
		TokenID:       msg.TokenID,
		SenderID:      msg.SenderID.String(),
		RecipientID:   msg.RecipientID.String(),
		SenderAlias:   msg.SenderAlias,
		Content:       msg.Content,
		MoodEmoji:     msg.MoodEmoji,
		TrackID:       msg.TrackID,
		TrackName:     msg.TrackName,
		TrackArtist:   msg.TrackArtist,
		TrackAlbumArt: msg.TrackAlbumArt,
		TrackURI:      msg.TrackURI,
		CreatedAt:     msg.CreatedAt,
	}
}

// Helper function to convert MessageDocument to models.Message
func convertMessageDocumentToModel(doc *MessageDocument) (*models.Message, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid message ID: %v", err)
	}

	senderID, err := uuid.Parse(doc.SenderID)
	if err != nil {
		return nil, fmt.Errorf("invalid sender ID: %v", err)
	}

	recipientID, err := uuid.Parse(doc.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient ID: %v", err)
	}

	return &models.Message{
		ID:            id,
		TokenID:       doc.TokenID,
		SenderID:      senderID,
		RecipientID:   recipientID,
		SenderAlias:   doc.SenderAlias,
		Content:       doc.Content,
		MoodEmoji:     doc.MoodEmoji,
		TrackID:       doc.TrackID,
		TrackName:     doc.TrackName,
		TrackArtist:   doc.TrackArtist,
		TrackAlbumArt: doc.TrackAlbumArt,
		TrackURI:      doc.TrackURI,
		CreatedAt:     doc.CreatedAt,
	}, nil
}
