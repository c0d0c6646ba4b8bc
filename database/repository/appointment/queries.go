package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"dencare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// committedFilter matches appointments that still occupy their interval.
func committedFilter(date string) bson.M {
	return bson.M{
		"date":      date,
		"isDeleted": false,
		"status":    bson.M{"$ne": models.StatusCancelled},
	}
}

func (repo *MongoAppointmentRepo) ListCommitted(ctx context.Context, date string) ([]models.Appointment, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := repo.coll.Find(ctxWithTimeout, committedFilter(date), opts)
	if err != nil {
		return nil, fmt.Errorf("error listing appointments for %s: %w", date, err)
	}
	var appts []models.Appointment
	if err := cursor.All(ctxWithTimeout, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments for %s: %w", date, err)
	}
	return appts, nil
}

func (repo *MongoAppointmentRepo) ListForUser(ctx context.Context, userID, fromDate string) ([]models.Appointment, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"userId":    userID,
		"isDeleted": false,
		"date":      bson.M{"$gte": fromDate},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := repo.coll.Find(ctxWithTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing appointments for user %s: %w", userID, err)
	}
	var appts []models.Appointment
	if err := cursor.All(ctxWithTimeout, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments for user %s: %w", userID, err)
	}
	return appts, nil
}

func (repo *MongoAppointmentRepo) ListDueReminders(ctx context.Context, date string) ([]models.Appointment, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"date":         date,
		"status":       models.StatusScheduled,
		"isDeleted":    false,
		"reminderSent": false,
	}
	cursor, err := repo.coll.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing due reminders for %s: %w", date, err)
	}
	var appts []models.Appointment
	if err := cursor.All(ctxWithTimeout, &appts); err != nil {
		return nil, fmt.Errorf("error decoding due reminders for %s: %w", date, err)
	}
	return appts, nil
}

func (repo *MongoAppointmentRepo) CountOverdue(ctx context.Context, before string) (int64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"date":      bson.M{"$lt": before},
		"status":    models.StatusScheduled,
		"isDeleted": false,
	}
	count, err := repo.coll.CountDocuments(ctxWithTimeout, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting overdue appointments: %w", err)
	}
	return count, nil
}

func (repo *MongoAppointmentRepo) CountScheduled(ctx context.Context) (int64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"status": models.StatusScheduled, "isDeleted": false}
	count, err := repo.coll.CountDocuments(ctxWithTimeout, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting scheduled appointments: %w", err)
	}
	return count, nil
}
