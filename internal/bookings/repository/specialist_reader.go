package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "careslot/internal/bookings/errors"
	"careslot/pkg/config"
	"careslot/pkg/model"
)

const SpecialistCollectionName = "Specialists"

// SpecialistReader gives the booking flow read access to specialist
// records for existence checks and location-based pricing. Writes stay
// with the specialists service.
type SpecialistReader interface {
	FindByID(ctx context.Context, id string) (*model.Specialist, error)
}

type mongoSpecialistReader struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSpecialistReader(cfg *config.Config) SpecialistReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSpecialistReader{
		cfg:        cfg,
		collection: db.Collection(SpecialistCollectionName),
	}
}

func (r *mongoSpecialistReader) FindByID(ctx context.Context, id string) (*model.Specialist, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var specialist model.Specialist
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&specialist)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrSpecialistNotFound
		}
		return nil, fmt.Errorf("failed to find specialist: %w", err)
	}

	return &specialist, nil
}
