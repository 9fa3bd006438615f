package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/midtrans-payment-reconciler/internal/domain/transaction"
)

const (
	// TransactionCollectionName is the name of the transaction collection in MongoDB
	TransactionCollectionName = "transactions"
)

// TransactionRepository implements the transaction.Repository interface for MongoDB
type TransactionRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewTransactionRepository creates a new MongoDB transaction repository
func NewTransactionRepository(logger *slog.Logger, db *mongo.Database) transaction.Repository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// GetByOrderID retrieves a transaction record by its order ID.
// Returns ErrRecordNotFound if no record exists for the order.
func (r *TransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*transaction.Record, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"order_id": orderID}
	var record transaction.Record
	err := collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transaction.ErrRecordNotFound{OrderID: orderID}
		}
		r.logger.Error("Failed to get transaction record",
			"order_id", orderID,
			"error", err)
		return nil, fmt.Errorf("failed to get transaction record: %w", err)
	}

	return &record, nil
}

// Create stores a new transaction record after checking for duplicates.
// Returns ErrDuplicateRecord if a record with the same order ID exists.
func (r *TransactionRepository) Create(ctx context.Context, record *transaction.Record) error {
	collection := r.db.Collection(TransactionCollectionName)

	existing, err := r.GetByOrderID(ctx, record.OrderID)
	if err != nil && !errors.Is(err, transaction.ErrRecordNotFound{}) {
		r.logger.Error("Failed to check for existing transaction record",
			"order_id", record.OrderID,
			"error", err)
		return fmt.Errorf("failed to check for existing transaction record: %w", err)
	}

	if existing != nil {
		return transaction.ErrDuplicateRecord{OrderID: record.OrderID}
	}

	_, err = collection.InsertOne(ctx, record)
	if err != nil {
		r.logger.Error("Failed to create transaction record",
			"order_id", record.OrderID,
			"error", err)
		return fmt.Errorf("failed to create transaction record: %w", err)
	}

	return nil
}

// Update overwrites the status-related fields of an existing record.
// Optional fields are set to the update's values even when empty, so the
// stored record always mirrors the most recent applied notification.
// Returns ErrRecordNotFound if the record doesn't exist.
func (r *TransactionRepository) Update(ctx context.Context, orderID string, update transaction.StatusUpdate) error {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"order_id": orderID}
	change := bson.M{
		"$set": bson.M{
			"status":           update.Status,
			"payment_type":     update.PaymentType,
			"transaction_time": update.TransactionTime,
			"updated_at":       update.UpdatedAt,
		},
	}

	result, err := collection.UpdateOne(ctx, filter, change)
	if err != nil {
		r.logger.Error("Failed to update transaction record",
			"order_id", orderID,
			"status", string(update.Status),
			"error", err)
		return fmt.Errorf("failed to update transaction record: %w", err)
	}

	if result.MatchedCount == 0 {
		return transaction.ErrRecordNotFound{OrderID: orderID}
	}

	return nil
}
