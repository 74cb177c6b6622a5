package database

import (
	"context"
	"fmt"
	"time"

	"drift-bottle/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// ReactionDocument represents reaction data in MongoDB. Reactions carry no
// account id; they are keyed to the parent message token only.
type ReactionDocument struct {
	ID           string    `bson:"_id"`
	MessageToken string    `bson:"messageToken"`
	ReactionType string    `bson:"reactionType"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// SaveReaction inserts a new reaction. Parent existence is not checked;
// orphaned rows simply never join to a message.
func (m *MongoDB) SaveReaction(ctx context.Context, reaction *models.Reaction) error {
	doc := ReactionDocument{
		ID:           reaction.ID.String(),
		MessageToken: reaction.MessageToken,
		ReactionType: string(reaction.ReactionType),
		CreatedAt:    reaction.CreatedAt,
	}
	if _, err := m.Reactions.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to save reaction: %v", err)
	}
	return nil
}

// GetReactionsByTokens retrieves all reactions whose parent token is in
// tokens, with a single $in query. The inbox indexes the result per token.
func (m *MongoDB) GetReactionsByTokens(ctx context.Context, tokens []string) ([]*models.Reaction, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	cursor, err := m.Reactions.Find(ctx, bson.M{"messageToken": bson.M{"$in": tokens}})
	if err != nil {
		return nil, fmt.Errorf("failed to get reactions: %v", err)
	}
	defer cursor.Close(ctx)

	var reactions []*models.Reaction
	for cursor.Next(ctx) {
		var doc ReactionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode reaction: %v", err)
		}

		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid reaction ID: %v", err)
		}

		reactions = append(reactions, &models.Reaction{
			ID:           id,
			MessageToken: doc.MessageToken,
			ReactionType: models.ReactionType(doc.ReactionType),
			CreatedAt:    doc.CreatedAt,
		})
	}

	return reactions, nil
}
