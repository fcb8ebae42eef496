package service

import (
	"context"
	"io"
	"testing"
	"time"

	scheduleserrors "careslot/internal/schedules/errors"
	"careslot/internal/schedules/validator"
	"careslot/pkg/config"
	apperrors "careslot/pkg/errors"
	"careslot/pkg/logger"
	"careslot/pkg/model"
)

// Mock repository for testing
type mockSlotRepository struct {
	createFunc   func(ctx context.Context, slot *model.Slot) error
	findByIDFunc func(ctx context.Context, id string) (*model.Slot, error)
	findFunc     func(ctx context.Context, specialistID string, date *time.Time, limit int, offset int64) ([]*model.Slot, error)
	countFunc    func(ctx context.Context, specialistID string, date *time.Time) (int64, error)
	deleteFunc   func(ctx context.Context, id string) error
}

func (m *mockSlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, slot)
	}
	slot.ID = "507f1f77bcf86cd799439088"
	return nil
}

func (m *mockSlotRepository) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Slot{ID: id}, nil
}

func (m *mockSlotRepository) FindBySpecialist(ctx context.Context, specialistID string, date *time.Time, limit int, offset int64) ([]*model.Slot, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, specialistID, date, limit, offset)
	}
	return []*model.Slot{}, nil
}

func (m *mockSlotRepository) CountBySpecialist(ctx context.Context, specialistID string, date *time.Time) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, specialistID, date)
	}
	return 0, nil
}

func (m *mockSlotRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func newTestService(repo *mockSlotRepository) *slotService {
	log := logger.New(logger.Config{Level: "error", Format: logger.TEXT, Output: io.Discard})
	return &slotService{
		repo:      repo,
		validator: validator.NewSlotValidator(log),
		cfg:       &config.Config{Log: log},
	}
}

func validSlot() *model.Slot {
	return &model.Slot{
		SpecialistID: "507f1f77bcf86cd799439011",
		Date:         time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		StartTime:    "09:00 AM",
	}
}

func TestBlock_SetsIsBooked(t *testing.T) {
	svc := newTestService(&mockSlotRepository{})

	slot := validSlot()
	slot.StartTime = "09:00 am" // normalized to upper-case meridiem

	if err := svc.Block(context.Background(), slot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slot.IsBooked {
		t.Error("expected IsBooked true after blocking")
	}
	if slot.StartTime != "09:00 AM" {
		t.Errorf("expected normalized label, got %q", slot.StartTime)
	}
}

func TestBlock_DuplicateReturnsConflict(t *testing.T) {
	svc := newTestService(&mockSlotRepository{
		createFunc: func(ctx context.Context, slot *model.Slot) error {
			return scheduleserrors.ErrDuplicateBlock
		},
	})

	err := svc.Block(context.Background(), validSlot())
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	if apperrors.AsAppError(err).StatusCode() != 409 {
		t.Errorf("expected status 409, got %d", apperrors.AsAppError(err).StatusCode())
	}
}

func TestBlock_InvalidLabelRejected(t *testing.T) {
	svc := newTestService(&mockSlotRepository{})

	slot := validSlot()
	slot.StartTime = "14:00"

	err := svc.Block(context.Background(), slot)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if apperrors.AsAppError(err).StatusCode() != 422 {
		t.Errorf("expected status 422, got %d", apperrors.AsAppError(err).StatusCode())
	}
}

func TestUnblock_NotFound(t *testing.T) {
	svc := newTestService(&mockSlotRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			return scheduleserrors.ErrNotFound
		},
	})

	err := svc.Unblock(context.Background(), "507f1f77bcf86cd799439088")
	if err == nil {
		t.Fatal("expected not-found error, got nil")
	}
	if apperrors.AsAppError(err).StatusCode() != 404 {
		t.Errorf("expected status 404, got %d", apperrors.AsAppError(err).StatusCode())
	}
}

func TestList_ReturnsCountAndSlots(t *testing.T) {
	svc := newTestService(&mockSlotRepository{
		countFunc: func(ctx context.Context, specialistID string, date *time.Time) (int64, error) {
			time.Sleep(5 * time.Millisecond)
			return 12, nil
		},
		findFunc: func(ctx context.Context, specialistID string, date *time.Time, limit int, offset int64) ([]*model.Slot, error) {
			time.Sleep(5 * time.Millisecond)
			return []*model.Slot{{ID: "1", StartTime: "09:00 AM"}}, nil
		},
	})

	slots, count, err := svc.List(context.Background(), "507f1f77bcf86cd799439011", nil, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 12 {
		t.Errorf("expected count 12, got %d", count)
	}
	if len(slots) != 1 {
		t.Errorf("expected 1 slot, got %d", len(slots))
	}
}
