package notificationRepo

import (
	"context"
	"fmt"
	"time"

	"dencare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoNotificationRepo is a MongoDB-backed implementation of Repository.
type MongoNotificationRepo struct {
	coll *mongo.Collection
}

func NewMongoNotificationRepo(db *mongo.Database) *MongoNotificationRepo {
	return &MongoNotificationRepo{coll: db.Collection("notifications")}
}

func (repo *MongoNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, n); err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

func (repo *MongoNotificationRepo) ListUnread(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"userId": userID,
		"isRead": false,
		"$or": bson.A{
			bson.M{"expiresAt": bson.M{"$exists": false}},
			bson.M{"expiresAt": nil},
			bson.M{"expiresAt": bson.M{"$gt": time.Now()}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := repo.coll.Find(ctxWithTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing unread notifications for %s: %w", userID, err)
	}
	var notifications []models.Notification
	if err := cursor.All(ctxWithTimeout, &notifications); err != nil {
		return nil, fmt.Errorf("error decoding unread notifications for %s: %w", userID, err)
	}
	return notifications, nil
}

func (repo *MongoNotificationRepo) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "userId": userID}
	update := bson.M{"$set": bson.M{"isRead": true}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error marking notification %s read: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (repo *MongoNotificationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"expiresAt": bson.M{"$ne": nil, "$lt": now}}
	res, err := repo.coll.DeleteMany(ctxWithTimeout, filter)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired notifications: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the necessary indexes on the notifications collection.
func (repo *MongoNotificationRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Backlog query pattern.
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "isRead", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("user_unread_idx"),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetName("expiry_idx"),
		},
	}

	_, err := repo.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}
	return nil
}
