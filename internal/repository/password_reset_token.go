package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/techdetails/storefront-api/internal/model"
)

// PasswordResetTokenRepository defines the interface for password reset
// token records.
type PasswordResetTokenRepository interface {
	// UpsertToken stores a token record for the user, replacing any prior
	// token so at most one reset token is live per user.
	UpsertToken(ctx context.Context, token *model.PasswordResetToken) error

	// GetToken retrieves a record by its token value.
	GetToken(ctx context.Context, token string) (*model.PasswordResetToken, error)

	// DeleteToken consumes a record. Resetting twice with the same token
	// fails because the record is gone.
	DeleteToken(ctx context.Context, token string) error
}

const passwordResetTokenCollection = "password_resets"

type passwordResetTokenMongoRepository struct {
	db *mongo.Database
}

// NewPasswordResetTokenMongoRepository creates a new MongoDB repository for
// password reset tokens. Expired records are reaped by a TTL index.
func NewPasswordResetTokenMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) PasswordResetTokenRepository {
	collection := db.Collection(passwordResetTokenCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "token", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create password reset token indexes")
	}

	return &passwordResetTokenMongoRepository{db: db}
}

func (r *passwordResetTokenMongoRepository) UpsertToken(
	ctx context.Context,
	token *model.PasswordResetToken,
) error {
	filter := bson.M{"user_id": token.UserID}
	update := bson.M{
		"$set": bson.M{
			"token":      token.Token,
			"email":      token.Email,
			"expires_at": token.ExpiresAt,
			"created_at": time.Now(),
		},
	}

	_, err := r.db.Collection(passwordResetTokenCollection).UpdateOne(
		ctx,
		filter,
		update,
		options.UpdateOne().SetUpsert(true),
	)

	return err
}

func (r *passwordResetTokenMongoRepository) GetToken(
	ctx context.Context,
	token string,
) (*model.PasswordResetToken, error) {
	var record model.PasswordResetToken
	err := r.db.Collection(passwordResetTokenCollection).
		FindOne(ctx, bson.M{"token": token}).
		Decode(&record)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *passwordResetTokenMongoRepository) DeleteToken(ctx context.Context, token string) error {
	_, err := r.db.Collection(passwordResetTokenCollection).DeleteOne(ctx, bson.M{"token": token})
	return err
}
