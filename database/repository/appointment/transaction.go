package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dencare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookTransactionally commits a booking as one atomic unit: bump the
// per-date lock document, re-read the committed set for the date,
// re-check availability, insert. The lock bump forces a write conflict
// between concurrent same-date transactions, so mongo aborts one of
// them as transient and the driver retries it against the winner's
// committed state; the loser's recheck then fails with ErrUnavailable.
func (repo *MongoAppointmentRepo) BookTransactionally(
	ctx context.Context,
	appt *models.Appointment,
	stillAvailable func(committed []models.Appointment) bool,
) error {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		lockFilter := bson.M{"_id": "date:" + appt.Date}
		lockUpdate := bson.M{
			"$inc":         bson.M{"rev": 1},
			"$setOnInsert": bson.M{"createdAt": time.Now()},
		}
		if _, err := repo.locksColl.UpdateOne(sc, lockFilter, lockUpdate, options.Update().SetUpsert(true)); err != nil {
			return nil, fmt.Errorf("booking lock update failed: %w", err)
		}

		opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
		cursor, err := repo.coll.Find(sc, committedFilter(appt.Date), opts)
		if err != nil {
			return nil, fmt.Errorf("availability recheck failed: %w", err)
		}
		var committed []models.Appointment
		if err := cursor.All(sc, &committed); err != nil {
			return nil, fmt.Errorf("availability recheck decode failed: %w", err)
		}

		if !stillAvailable(committed) {
			return nil, ErrUnavailable
		}

		if _, err := repo.coll.InsertOne(sc, appt); err != nil {
			return nil, fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil, nil
	}

	if _, err := sess.WithTransaction(ctx, txnFn); err != nil {
		if errors.Is(err, ErrUnavailable) {
			return ErrUnavailable
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}
