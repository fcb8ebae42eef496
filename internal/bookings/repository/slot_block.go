package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"careslot/pkg/config"
	"careslot/pkg/model"
)

const SlotCollectionName = "Slots"

// SlotBlockReader exposes the schedules service's manual blocks to the
// availability resolver, plus the compensating delete used when a
// booking that auto-blocked its slot is cancelled.
type SlotBlockReader interface {
	FindBlockedByDate(ctx context.Context, specialistID string, date time.Time) ([]*model.Slot, error)
	DeleteBlock(ctx context.Context, specialistID string, date time.Time, slotTime string) error
}

type mongoSlotBlockReader struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotBlockReader(cfg *config.Config) SlotBlockReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotBlockReader{
		cfg:        cfg,
		collection: db.Collection(SlotCollectionName),
	}
}

func (r *mongoSlotBlockReader) FindBlockedByDate(ctx context.Context, specialistID string, date time.Time) ([]*model.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"specialist_id": specialistID,
		"date":          date,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find blocked slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.Slot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode blocked slots: %w", err)
	}

	return slots, nil
}

// DeleteBlock removes a block for a single slot. Missing documents are
// not an error so the cancel compensation stays idempotent.
func (r *mongoSlotBlockReader) DeleteBlock(ctx context.Context, specialistID string, date time.Time, slotTime string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"specialist_id": specialistID,
		"date":          date,
		"start_time":    slotTime,
	}

	if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete slot block: %w", err)
	}

	return nil
}
