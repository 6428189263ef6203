package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"roomflow/database"
	"roomflow/models"
	"roomflow/services/catalog"
)

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a BookingSubmissionService writing to the
// bookings collection.
func NewMongoBookingRepo() catalog.BookingSubmissionService {
	db := database.MongoClient.Database("roomflow")
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}

// Create inserts the booking document and returns its ID.
func (r *mongoBookingRepo) Create(ctx context.Context, record models.BookingRecord) (string, error) {
	if record.BookingID == "" {
		record.BookingID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return "", err
	}
	return record.BookingID, nil
}
