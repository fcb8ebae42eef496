package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"careslot/internal/migrations/mongo/validators"
)

const (
	DB_NAME = "careslot"
)

var (
	SpecialistsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "specialty", Value: 1}}},
		{Keys: bson.D{{Key: "specialty", Value: 1}}},
	}

	// The partial unique index is the authoritative double-booking guard:
	// at most one non-cancelled booking may hold a given
	// specialist/date/slot triple.
	BookingsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "specialist_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "slot_time", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{
					{Key: "status", Value: bson.D{{Key: "$ne", Value: "CANCELLED"}}},
				}),
		},
		{Keys: bson.D{
			{Key: "patient_id", Value: 1},
			{Key: "created_at", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "specialist_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "date", Value: 1},
		}},
	}

	// Mongo reaps expired lock documents via the TTL monitor.
	BookingLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	SlotsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "specialist_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "start_time", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	DailyLogsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "booking_id", Value: 1},
			{Key: "date", Value: 1},
		}},
	}

	ClinicsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "specialist_id", Value: 1}}},
	}

	ReviewsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "specialist_id", Value: 1},
			{Key: "created_at", Value: -1},
		}},
	}

	BankAccountsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "specialist_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	PayoutRequestsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "specialist_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "created_at", Value: -1},
		}},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client) error {
	db := client.Database(DB_NAME)
	fmt.Printf("🚀 Running CareSlot Mongo migrations on database: %s\n", DB_NAME)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Specialists": {
			Indexes:   SpecialistsIndexes,
			Validator: validators.SpecialistValidator,
		},
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Booking_locks": {
			Indexes: BookingLocksIndexes,
		},
		"Slots": {
			Indexes:   SlotsIndexes,
			Validator: validators.SlotValidator,
		},
		"Daily_logs": {
			Indexes:   DailyLogsIndexes,
			Validator: validators.DailyLogValidator,
		},
		"Clinics": {
			Indexes:   ClinicsIndexes,
			Validator: validators.ClinicValidator,
		},
		"Reviews": {
			Indexes:   ReviewsIndexes,
			Validator: validators.ReviewValidator,
		},
		"Bank_accounts": {
			Indexes:   BankAccountsIndexes,
			Validator: validators.BankAccountValidator,
		},
		"Payout_requests": {
			Indexes:   PayoutRequestsIndexes,
			Validator: validators.PayoutRequestValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts = opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else if validator != nil {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
