package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	specialistserrors "careslot/internal/specialists/errors"
	"careslot/pkg/config"
	"careslot/pkg/model"
)

const CollectionName = "Specialists"

type SpecialistRepository interface {
	Create(ctx context.Context, specialist *model.Specialist) error
	FindByID(ctx context.Context, id string) (*model.Specialist, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Specialist, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, city string, specialty string, limit int, offset int64) ([]*model.Specialist, error)
	CountSearch(ctx context.Context, city string, specialty string) (int64, error)
	Update(ctx context.Context, id string, specialist *model.Specialist) error
}

type mongoSpecialistRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSpecialistRepository(cfg *config.Config) SpecialistRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSpecialistRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoSpecialistRepository) Create(ctx context.Context, specialist *model.Specialist) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	specialist.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, specialist)
	if err != nil {
		return fmt.Errorf("failed to create specialist: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		specialist.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSpecialistRepository) FindByID(ctx context.Context, id string) (*model.Specialist, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", specialistserrors.ErrInvalidID, id)
	}

	var specialist model.Specialist
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&specialist)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, specialistserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find specialist: %w", err)
	}

	return &specialist, nil
}

func (r *mongoSpecialistRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Specialist, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find specialists: %w", err)
	}
	defer cursor.Close(ctx)

	var specialists []*model.Specialist
	if err = cursor.All(ctx, &specialists); err != nil {
		return nil, fmt.Errorf("failed to decode specialists: %w", err)
	}

	return specialists, nil
}

func (r *mongoSpecialistRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count specialists: %w", err)
	}
	return count, nil
}

func (r *mongoSpecialistRepository) Search(ctx context.Context, city string, specialty string, limit int, offset int64) ([]*model.Specialist, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildSearchFilter(city, specialty), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search specialists: %w", err)
	}
	defer cursor.Close(ctx)

	var specialists []*model.Specialist
	if err = cursor.All(ctx, &specialists); err != nil {
		return nil, fmt.Errorf("failed to decode specialists: %w", err)
	}

	return specialists, nil
}

func (r *mongoSpecialistRepository) CountSearch(ctx context.Context, city string, specialty string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildSearchFilter(city, specialty))
	if err != nil {
		return 0, fmt.Errorf("failed to count specialists by search: %w", err)
	}
	return count, nil
}

// buildSearchFilter escapes user input before it reaches the regex engine.
func buildSearchFilter(city string, specialty string) bson.M {
	filter := bson.M{}
	if city != "" {
		filter["city"] = bson.M{"$regex": regexp.QuoteMeta(city), "$options": "i"}
	}
	if specialty != "" {
		filter["specialty"] = bson.M{"$regex": regexp.QuoteMeta(specialty), "$options": "i"}
	}
	return filter
}

func (r *mongoSpecialistRepository) Update(ctx context.Context, id string, specialist *model.Specialist) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", specialistserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"name":         specialist.Name,
		"specialty":    specialist.Specialty,
		"phone":        specialist.Phone,
		"bio":          specialist.Bio,
		"city":         specialist.City,
		"clinic_price": specialist.ClinicPrice,
		"home_price":   specialist.HomePrice,
		"video_price":  specialist.VideoPrice,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update specialist: %w", err)
	}
	if result.MatchedCount == 0 {
		return specialistserrors.ErrNotFound
	}

	return nil
}
