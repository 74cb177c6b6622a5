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

// ProfileDocument represents profile data in MongoDB
type ProfileDocument struct {
	ID           string    `bson:"_id"`
	DisplayName  string    `bson:"displayName"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// SaveProfile creates or updates a profile in MongoDB
func (m *MongoDB) SaveProfile(ctx context.Context, profile *models.Profile) error {
	doc := ProfileDocument{
		ID:           profile.ID.String(),
		DisplayName:  profile.DisplayName,
		Email:        profile.Email,
		PasswordHash: profile.HashedPassword,
		CreatedAt:    profile.CreatedAt,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	if _, err := m.Profiles.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save profile: %v", err)
	}
	return nil
}

// GetProfile retrieves a profile by ID
func (m *MongoDB) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var doc ProfileDocument
	err := m.Profiles.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %v", err)
	}
	return convertProfileDocumentToModel(&doc)
}

// GetProfileByEmail retrieves a profile by its login email
func (m *MongoDB) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var doc ProfileDocument
	err := m.Profiles.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by email: %v", err)
	}
	return convertProfileDocumentToModel(&doc)
}

// GetAllProfiles retrieves every registered profile ordered by display name.
// The directory view filters out the requesting user client-side.
func (m *MongoDB) GetAllProfiles(ctx context.Context) ([]*models.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "displayName", Value: 1}})
	cursor, err := m.Profiles.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %v", err)
	}
	defer cursor.Close(ctx)

	var profiles []*models.Profile
	for cursor.Next(ctx) {
		var doc ProfileDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode profile: %v", err)
		}
		profile, err := convertProfileDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// Helper function to convert ProfileDocument to models.Profile
func convertProfileDocumentToModel(doc *ProfileDocument) (*models.Profile, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid profile ID: %v", err)
	}

	return &models.Profile{
		ID:             id,
		DisplayName:    doc.DisplayName,
		Email:          doc.Email,
		HashedPassword: doc.PasswordHash,
		CreatedAt:      doc.CreatedAt,
	}, nil
}
