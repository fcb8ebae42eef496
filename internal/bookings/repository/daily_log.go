package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "careslot/internal/bookings/errors"
	"careslot/pkg/config"
	"careslot/pkg/model"
)

const DailyLogCollectionName = "Daily_logs"

type DailyLogRepository interface {
	CreateMany(ctx context.Context, logs []*model.DailyLog) error
	FindByBooking(ctx context.Context, bookingID string) ([]*model.DailyLog, error)
	FindByID(ctx context.Context, id string) (*model.DailyLog, error)
	Update(ctx context.Context, id string, status string, notes string) error
}

type mongoDailyLogRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDailyLogRepository(cfg *config.Config) DailyLogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDailyLogRepository{
		cfg:        cfg,
		collection: db.Collection(DailyLogCollectionName),
	}
}

// CreateMany inserts the full log set for a course booking. Runs inside the
// booking transaction so a failed insert rolls the booking back too.
func (r *mongoDailyLogRepository) CreateMany(ctx context.Context, logs []*model.DailyLog) error {
	if len(logs) == 0 {
		return nil
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, 0, len(logs))
	for _, l := range logs {
		l.CreatedAt = now
		docs = append(docs, l)
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to create daily logs: %w", err)
	}

	for i, insertedID := range result.InsertedIDs {
		if oid, ok := insertedID.(primitive.ObjectID); ok && i < len(logs) {
			logs[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *mongoDailyLogRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.DailyLog, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find daily logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []*model.DailyLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode daily logs: %w", err)
	}

	return logs, nil
}

func (r *mongoDailyLogRepository) FindByID(ctx context.Context, id string) (*model.DailyLog, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var log model.DailyLog
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrLogNotFound
		}
		return nil, fmt.Errorf("failed to find daily log: %w", err)
	}

	return &log, nil
}

func (r *mongoDailyLogRepository) Update(ctx context.Context, id string, status string, notes string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	update := bson.M{}
	if status != "" {
		update["status"] = status
	}
	if notes != "" {
		update["notes"] = notes
	}
	if len(update) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("failed to update daily log: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrLogNotFound
	}

	return nil
}
