package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"dencare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAppointmentRepo is a MongoDB-backed implementation of Repository.
type MongoAppointmentRepo struct {
	coll      *mongo.Collection
	locksColl *mongo.Collection
}

// NewMongoAppointmentRepo returns a repository over the appointments and
// booking_locks collections.
func NewMongoAppointmentRepo(db *mongo.Database) *MongoAppointmentRepo {
	return &MongoAppointmentRepo{
		coll:      db.Collection("appointments"),
		locksColl: db.Collection("booking_locks"),
	}
}

func (repo *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	filter := bson.M{"id": id, "isDeleted": false}
	if err := repo.coll.FindOne(ctxWithTimeout, filter).Decode(&appt); err != nil {
		return nil, fmt.Errorf("appointment not found: %w", err)
	}
	return &appt, nil
}

func (repo *MongoAppointmentRepo) UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "isDeleted": false}
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return nil, fmt.Errorf("error updating appointment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("appointment %s not found", id)
	}
	return repo.GetByID(ctx, id)
}

func (repo *MongoAppointmentRepo) MarkReminderSent(ctx context.Context, id string, at time.Time) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// The reminderSent=false guard is the de-duplication gate: only one
	// caller can flip the flag.
	filter := bson.M{"id": id, "reminderSent": false}
	update := bson.M{"$set": bson.M{
		"reminderSent":   true,
		"reminderSentAt": at,
		"updatedAt":      at,
	}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error marking reminder sent for %s: %w", id, err)
	}
	return res.ModifiedCount > 0, nil
}
