package utils

import (
	"context"
	"log"
	"time"

	"backend/config"
	"backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SweepExpiredBookings marks every booking whose end time has passed and that
// is not already terminal as completed, then releases the affected desks. It
// is idempotent and runs inline on booking read paths as well as from the
// daily scheduler; failures are logged and swallowed so reads still succeed.
func SweepExpiredBookings() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := Now()
	filter := bson.M{
		"end_time": bson.M{"$lt": now},
		"status":   bson.M{"$nin": []string{models.BookingCancelled, models.BookingCompleted}},
	}

	// Collected before the update; afterwards the filter matches nothing.
	deskIDs, err := config.BookingCollection.Distinct(ctx, "desk_id", filter)
	if err != nil {
		log.Printf("sweep: failed to collect expiring desks: %v", err)
	}

	update := bson.M{
		"$set": bson.M{
			"status":       models.BookingCompleted,
			"completed_at": now,
			"updated_at":   now,
		},
	}

	result, err := config.BookingCollection.UpdateMany(ctx, filter, update)
	if err != nil {
		log.Printf("sweep: failed to complete expired bookings: %v", err)
		return
	}
	if result.ModifiedCount > 0 {
		log.Printf("sweep: completed %d expired bookings", result.ModifiedCount)
	}

	for _, raw := range deskIDs {
		deskID, ok := raw.(string)
		if !ok {
			continue
		}
		releaseDeskIfIdle(ctx, deskID)
	}
}

// releaseDeskIfIdle sets a desk back to available after its bookings expired,
// unless another active booking still holds it or it is under maintenance.
func releaseDeskIfIdle(ctx context.Context, deskID string) {
	active, err := config.BookingCollection.CountDocuments(ctx, bson.M{
		"desk_id": deskID,
		"status":  bson.M{"$nin": []string{models.BookingCancelled, models.BookingCompleted}},
	})
	if err != nil {
		log.Printf("sweep: failed to count active bookings for desk %s: %v", deskID, err)
		return
	}
	if active > 0 {
		return
	}

	objID, err := primitive.ObjectIDFromHex(deskID)
	if err != nil {
		return
	}
	_, err = config.DeskCollection.UpdateOne(ctx,
		bson.M{"_id": objID, "status": bson.M{"$ne": models.DeskMaintenance}},
		bson.M{"$set": bson.M{"status": models.DeskAvailable, "updated_at": Now()}},
	)
	if err != nil {
		log.Printf("sweep: failed to release desk %s: %v", deskID, err)
	}
}
