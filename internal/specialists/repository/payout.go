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

	specialistserrors "careslot/internal/specialists/errors"
	"careslot/pkg/config"
	"careslot/pkg/model"
)

const (
	BankAccountCollectionName = "Bank_accounts"
	PayoutCollectionName      = "Payout_requests"
)

type PayoutRepository interface {
	UpsertBankAccount(ctx context.Context, account *model.BankAccount) error
	FindBankAccount(ctx context.Context, specialistID string) (*model.BankAccount, error)
	CreatePayout(ctx context.Context, payout *model.PayoutRequest) error
	FindPayoutByID(ctx context.Context, id string) (*model.PayoutRequest, error)
	FindPayouts(ctx context.Context, specialistID string, status string, limit int, offset int64) ([]*model.PayoutRequest, error)
	CountPayouts(ctx context.Context, specialistID string, status string) (int64, error)
	SetPayoutStatus(ctx context.Context, id string, status string) error
}

type mongoPayoutRepository struct {
	cfg      *config.Config
	accounts *mongo.Collection
	payouts  *mongo.Collection
}

func NewMongoPayoutRepository(cfg *config.Config) PayoutRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPayoutRepository{
		cfg:      cfg,
		accounts: db.Collection(BankAccountCollectionName),
		payouts:  db.Collection(PayoutCollectionName),
	}
}

// UpsertBankAccount replaces the specialist's payout destination; each
// specialist keeps a single account.
func (r *mongoPayoutRepository) UpsertBankAccount(ctx context.Context, account *model.BankAccount) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	account.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	update := bson.M{"$set": bson.M{
		"specialist_id":  account.SpecialistID,
		"holder_name":    account.HolderName,
		"account_number": account.AccountNumber,
		"bank_code":      account.BankCode,
		"created_at":     account.CreatedAt,
	}}

	opts := options.Update().SetUpsert(true)
	result, err := r.accounts.UpdateOne(ctx, bson.M{"specialist_id": account.SpecialistID}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert bank account: %w", err)
	}

	if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
		account.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPayoutRepository) FindBankAccount(ctx context.Context, specialistID string) (*model.BankAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var account model.BankAccount
	err := r.accounts.FindOne(ctx, bson.M{"specialist_id": specialistID}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, specialistserrors.ErrBankAccountNotFound
		}
		return nil, fmt.Errorf("failed to find bank account: %w", err)
	}

	return &account, nil
}

func (r *mongoPayoutRepository) CreatePayout(ctx context.Context, payout *model.PayoutRequest) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	payout.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.payouts.InsertOne(ctx, payout)
	if err != nil {
		return fmt.Errorf("failed to create payout request: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		payout.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPayoutRepository) FindPayoutByID(ctx context.Context, id string) (*model.PayoutRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", specialistserrors.ErrInvalidID, id)
	}

	var payout model.PayoutRequest
	err = r.payouts.FindOne(ctx, bson.M{"_id": objectID}).Decode(&payout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, specialistserrors.ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to find payout request: %w", err)
	}

	return &payout, nil
}

func (r *mongoPayoutRepository) FindPayouts(ctx context.Context, specialistID string, status string, limit int, offset int64) ([]*model.PayoutRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.payouts.Find(ctx, buildPayoutFilter(specialistID, status), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find payout requests: %w", err)
	}
	defer cursor.Close(ctx)

	var payoutRequests []*model.PayoutRequest
	if err = cursor.All(ctx, &payoutRequests); err != nil {
		return nil, fmt.Errorf("failed to decode payout requests: %w", err)
	}

	return payoutRequests, nil
}

func (r *mongoPayoutRepository) CountPayouts(ctx context.Context, specialistID string, status string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.payouts.CountDocuments(ctx, buildPayoutFilter(specialistID, status))
	if err != nil {
		return 0, fmt.Errorf("failed to count payout requests: %w", err)
	}
	return count, nil
}

func buildPayoutFilter(specialistID string, status string) bson.M {
	filter := bson.M{}
	if specialistID != "" {
		filter["specialist_id"] = specialistID
	}
	if status != "" {
		filter["status"] = status
	}
	return filter
}

func (r *mongoPayoutRepository) SetPayoutStatus(ctx context.Context, id string, status string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", specialistserrors.ErrInvalidID, id)
	}

	result, err := r.payouts.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update payout status: %w", err)
	}
	if result.MatchedCount == 0 {
		return specialistserrors.ErrPayoutNotFound
	}

	return nil
}
