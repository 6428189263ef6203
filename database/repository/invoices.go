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

type mongoInvoiceRepo struct {
	coll *mongo.Collection
}

// NewMongoInvoiceRepo returns an InvoiceSettlementService writing to the
// invoices collection.
func NewMongoInvoiceRepo() catalog.InvoiceSettlementService {
	db := database.MongoClient.Database("roomflow")
	return &mongoInvoiceRepo{
		coll: db.Collection("invoices"),
	}
}

// Settle inserts the invoice document and returns its ID.
func (r *mongoInvoiceRepo) Settle(ctx context.Context, invoice models.Invoice) (string, error) {
	if invoice.InvoiceID == "" {
		invoice.InvoiceID = uuid.New().String()
	}
	now := time.Now()
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = now
	}
	invoice.ModifiedAt = now
	if _, err := r.coll.InsertOne(ctx, invoice); err != nil {
		return "", err
	}
	return invoice.InvoiceID, nil
}
