package userRepo

import (
	"context"
	"fmt"
	"time"

	"dencare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository defines the identity lookups the scheduling core needs.
type Repository interface {
	// GetByID retrieves a non-deleted user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// CountActive counts active, non-deleted users.
	CountActive(ctx context.Context) (int64, error)
}

// MongoUserRepo is a MongoDB-backed implementation of Repository.
type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{coll: db.Collection("users")}
}

func (repo *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	filter := bson.M{"id": id, "isDeleted": false}
	if err := repo.coll.FindOne(ctxWithTimeout, filter).Decode(&user); err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return &user, nil
}

func (repo *MongoUserRepo) CountActive(ctx context.Context) (int64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"isActive": true, "isDeleted": false}
	count, err := repo.coll.CountDocuments(ctxWithTimeout, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting active users: %w", err)
	}
	return count, nil
}
