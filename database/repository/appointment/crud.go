package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"frontdesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new appointment record.
func (r *mongoAppointmentRepo) Create(ctx context.Context, appt models.Appointment) error {
	_, err := r.coll.InsertOne(ctx, appt)
	return err
}

// GetByID returns an appointment by its ID.
func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// ListConfirmedByDate fetches the confirmed appointments for a date in
// chronological order.
func (r *mongoAppointmentRepo) ListConfirmedByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startMinute", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"date": date, "status": models.AppointmentConfirmed}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// MarkCancelled transitions Confirmed -> Cancelled. The status filter makes
// the transition one-way: an already-cancelled id matches nothing.
func (r *mongoAppointmentRepo) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": models.AppointmentConfirmed},
		bson.M{"$set": bson.M{"status": models.AppointmentCancelled, "cancelledAt": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
