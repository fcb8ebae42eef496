package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	specialistserrors "careslot/internal/specialists/errors"
	"careslot/pkg/config"
	"careslot/pkg/model"
)

const ClinicCollectionName = "Clinics"

type ClinicRepository interface {
	Create(ctx context.Context, clinic *model.Clinic) error
	FindBySpecialist(ctx context.Context, specialistID string) ([]*model.Clinic, error)
	Delete(ctx context.Context, id string) error
}

type mongoClinicRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoClinicRepository(cfg *config.Config) ClinicRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoClinicRepository{
		cfg:        cfg,
		collection: db.Collection(ClinicCollectionName),
	}
}

func (r *mongoClinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	clinic.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, clinic)
	if err != nil {
		return fmt.Errorf("failed to create clinic: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		clinic.ID = oid.Hex()
	}
	return nil
}

func (r *mongoClinicRepository) FindBySpecialist(ctx context.Context, specialistID string) ([]*model.Clinic, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"specialist_id": specialistID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find clinics: %w", err)
	}
	defer cursor.Close(ctx)

	var clinics []*model.Clinic
	if err = cursor.All(ctx, &clinics); err != nil {
		return nil, fmt.Errorf("failed to decode clinics: %w", err)
	}

	return clinics, nil
}

func (r *mongoClinicRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", specialistserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete clinic: %w", err)
	}
	if result.DeletedCount == 0 {
		return specialistserrors.ErrClinicNotFound
	}
	return nil
}
