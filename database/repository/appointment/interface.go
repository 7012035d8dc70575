package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"frontdesk/database"
	"frontdesk/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a lookup or status transition matches nothing.
var ErrNotFound = errors.New("appointment not found")

type AppointmentRepository interface {
	Create(ctx context.Context, appt models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListConfirmedByDate(ctx context.Context, date string) ([]models.Appointment, error)
	// MarkCancelled flips a Confirmed appointment to Cancelled. Cancelled is
	// terminal; a second call on the same id returns ErrNotFound.
	MarkCancelled(ctx context.Context, id string, at time.Time) error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo returns a new AppointmentRepository instance using MongoDB.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database("frontdesk")
	return &mongoAppointmentRepo{
		coll: db.Collection("appointments"),
	}
}
