package service

import (
	"context"
	"errors"
	"sync"
	"time"

	scheduleserrors "careslot/internal/schedules/errors"
	"careslot/internal/schedules/repository"
	"careslot/internal/schedules/validator"
	"careslot/pkg/config"
	apperrors "careslot/pkg/errors"
	"careslot/pkg/model"
	"careslot/pkg/sanitizer"
)

type SlotService interface {
	Block(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id string) (*model.Slot, error)
	List(ctx context.Context, specialistID string, date *time.Time, limit int, offset int64) ([]*model.Slot, int64, error)
	Unblock(ctx context.Context, id string) error
}

type slotService struct {
	repo      repository.SlotRepository
	validator *validator.SlotValidator
	cfg       *config.Config
}

func NewSlotService(repo repository.SlotRepository, validator *validator.SlotValidator, cfg *config.Config) SlotService {
	return &slotService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// Block records a manual hold on a slot so the availability resolver
// reports it busy without a patient booking behind it.
func (s *slotService) Block(ctx context.Context, slot *model.Slot) error {
	slot.StartTime = sanitizer.NormalizeSlotLabel(slot.StartTime)
	slot.Date = slot.Date.UTC().Truncate(24 * time.Hour)
	slot.IsBooked = true

	if err := s.validator.Validate(slot); err != nil {
		s.cfg.Log.Warn("Slot validation failed", "error", err)
		return apperrors.Validation("Slot validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		if errors.Is(err, scheduleserrors.ErrDuplicateBlock) {
			return apperrors.Conflict("Slot is already blocked")
		}
		s.cfg.Log.Error("Failed to block slot", "error", err)
		return apperrors.Internal("Failed to block slot", err)
	}

	s.cfg.Log.Info("Slot blocked",
		"id", slot.ID,
		"specialist_id", slot.SpecialistID,
		"date", slot.Date,
		"start_time", slot.StartTime,
	)
	return nil
}

func (s *slotService) GetByID(ctx context.Context, id string) (*model.Slot, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Slot ID cannot be empty")
	}

	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Slot", id)
		}
		if errors.Is(err, scheduleserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid slot ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve slot", err)
	}

	return slot, nil
}

func (s *slotService) List(ctx context.Context, specialistID string, date *time.Time, limit int, offset int64) ([]*model.Slot, int64, error) {
	if specialistID == "" {
		return nil, 0, apperrors.InvalidInput("Specialist ID cannot be empty")
	}

	var count int64
	var slots []*model.Slot
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountBySpecialist(ctx, specialistID, date)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count slots", "specialist_id", specialistID, "error", errCount)
			errCount = apperrors.Internal("Failed to count slots", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		slots, errFind = s.repo.FindBySpecialist(ctx, specialistID, date, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list slots", "specialist_id", specialistID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve slots", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return slots, count, nil
}

func (s *slotService) Unblock(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Slot ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, scheduleserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Slot", id)
		}
		if errors.Is(err, scheduleserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid slot ID format")
		}
		s.cfg.Log.Error("Failed to unblock slot", "id", id, "error", err)
		return apperrors.Internal("Failed to unblock slot", err)
	}

	s.cfg.Log.Info("Slot unblocked", "id", id)
	return nil
}
