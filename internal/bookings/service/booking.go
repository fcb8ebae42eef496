package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "careslot/internal/bookings/errors"
	"careslot/internal/bookings/events"
	"careslot/internal/bookings/repository"
	"careslot/internal/bookings/validator"
	"careslot/pkg/config"
	apperrors "careslot/pkg/errors"
	"careslot/pkg/model"
	"careslot/pkg/sanitizer"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Search(ctx context.Context, filter repository.SearchFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) error
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	RecordPayment(ctx context.Context, id string, payment *model.PaymentRequest) (*model.Booking, error)
	SweepStale(ctx context.Context) (int64, error)
	GetLogs(ctx context.Context, bookingID string) ([]*model.DailyLog, error)
	UpdateLog(ctx context.Context, logID string, update *model.DailyLogUpdate) error
	Availability(ctx context.Context, specialistID string, date time.Time) (*model.Availability, error)
}

type bookingService struct {
	repo        repository.BookingRepository
	lockRepo    repository.BookingLockRepository
	logRepo     repository.DailyLogRepository
	slotBlocks  repository.SlotBlockReader
	specialists repository.SpecialistReader
	notifier    events.Notifier
	validator   *validator.BookingValidator
	cfg         *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	logRepo repository.DailyLogRepository,
	slotBlocks repository.SlotBlockReader,
	specialists repository.SpecialistReader,
	notifier events.Notifier,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:        repo,
		lockRepo:    lockRepo,
		logRepo:     logRepo,
		slotBlocks:  slotBlocks,
		specialists: specialists,
		notifier:    notifier,
		validator:   validator,
		cfg:         cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)

	if err := s.applyPricing(ctx, booking); err != nil {
		return err
	}
	if err := s.validate(booking); err != nil {
		return err
	}
	if err := s.enforceBookingRate(ctx, booking.PatientID); err != nil {
		return err
	}

	// Advisory pre-check: catches course overlaps and manual blocks early,
	// but can race. The transaction below re-checks authoritatively.
	availability, err := s.Availability(ctx, booking.SpecialistID, booking.Date)
	if err != nil {
		return err
	}
	if slices.Contains(availability.BusySlots, booking.SlotTime) {
		return s.slotTakenError(booking)
	}

	// Acquire advisory lock to serialize concurrent attempts on the same slot
	lockID, err := s.acquireSlotLock(ctx, booking.SpecialistID, booking.Date, booking.SlotTime)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		taken, err := s.repo.ExistsActiveSlot(sessCtx, booking.SpecialistID, booking.Date, booking.SlotTime)
		if err != nil {
			return apperrors.Internal("Failed to check slot occupancy", err)
		}
		if taken {
			return s.slotTakenError(booking)
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}

		if err := s.logRepo.CreateMany(sessCtx, buildDailyLogs(booking)); err != nil {
			return apperrors.Internal("Failed to create daily logs", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"specialist_id", booking.SpecialistID,
		"patient_id", booking.PatientID,
		"date", booking.Date,
		"slot_time", booking.SlotTime,
		"duration_days", booking.DurationDays,
	)

	// Notification is best effort; the booking has already committed.
	s.notifier.BookingCreated(ctx, booking)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Search(ctx context.Context, filter repository.SearchFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if filter.SpecialistID == "" && filter.PatientID == "" {
		return nil, 0, apperrors.InvalidInput("At least one of specialist_id or patient_id is required")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountSearch(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings by search", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.Search(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to search bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to search bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) error {
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		s.cfg.Log.Warn("Booking status update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid status update", map[string]any{"error": err.Error()})
	}

	// Cancellation carries a compensating action, so it has its own path.
	if update.Status == model.BookingStatusCancelled {
		_, err := s.Cancel(ctx, id)
		return err
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booking.Status != model.BookingStatusUpcoming {
		return apperrors.Conflict(fmt.Sprintf("Booking is %s and can no longer change status", booking.Status))
	}

	if err := s.repo.SetStatus(ctx, id, update.Status); err != nil {
		s.cfg.Log.Error("Failed to update booking status", "id", id, "error", err)
		return apperrors.Internal("Failed to update booking status", err)
	}

	s.cfg.Log.Info("Booking status updated", "id", id, "status", update.Status)
	return nil
}

// Cancel flips the booking to CANCELLED and clears any manual slot block on
// the same coordinates so the slot becomes bookable again. The block delete
// is a compensating action, not part of the status transaction; both writes
// are idempotent.
func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingStatusCancelled {
		return booking, nil
	}
	// COMPLETED and SKIPPED are terminal: only UPCOMING bookings can be cancelled.
	if booking.Status != model.BookingStatusUpcoming {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking is %s and cannot be cancelled", booking.Status))
	}

	if err := s.repo.SetStatus(ctx, id, model.BookingStatusCancelled); err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}
	booking.Status = model.BookingStatusCancelled

	if err := s.slotBlocks.DeleteBlock(ctx, booking.SpecialistID, booking.Date, booking.SlotTime); err != nil {
		// The booking is already cancelled; a leftover block only hides the
		// slot from availability until a doctor clears it manually.
		s.cfg.Log.Warn("Failed to clear slot block after cancellation",
			"booking_id", id,
			"specialist_id", booking.SpecialistID,
			"date", booking.Date,
			"slot_time", booking.SlotTime,
			"error", err,
		)
	}

	s.cfg.Log.Info("Booking cancelled", "id", id)
	s.notifier.BookingCancelled(ctx, booking)
	return booking, nil
}

func (s *bookingService) RecordPayment(ctx context.Context, id string, payment *model.PaymentRequest) (*model.Booking, error) {
	if err := s.validator.ValidatePayment(payment); err != nil {
		s.cfg.Log.Warn("Payment validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid payment", map[string]any{"error": err.Error()})
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.IsTerminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking is %s and cannot accept payments", booking.Status))
	}

	newAmount := booking.AmountPaid + payment.Amount
	if newAmount > booking.TotalPrice {
		return nil, apperrors.Validation("Payment exceeds outstanding balance", map[string]any{
			"amount_paid": booking.AmountPaid,
			"total_price": booking.TotalPrice,
			"amount":      payment.Amount,
		})
	}

	if err := s.repo.SetAmountPaid(ctx, id, newAmount); err != nil {
		s.cfg.Log.Error("Failed to record payment", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to record payment", err)
	}
	booking.AmountPaid = newAmount

	s.cfg.Log.Info("Payment recorded", "id", id, "amount", payment.Amount, "amount_paid", newAmount)
	return booking, nil
}

// SweepStale flips UPCOMING bookings older than the configured buffer to
// SKIPPED. Idempotent and safe to trigger repeatedly or concurrently.
func (s *bookingService) SweepStale(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.cfg.SweepBuffer)

	skipped, err := s.repo.MarkStaleSkipped(ctx, cutoff)
	if err != nil {
		s.cfg.Log.Error("Failed to sweep stale bookings", "error", err)
		return 0, apperrors.Internal("Failed to sweep stale bookings", err)
	}

	s.cfg.Log.Info("Stale booking sweep completed", "skipped", skipped, "cutoff", cutoff)
	return skipped, nil
}

func (s *bookingService) GetLogs(ctx context.Context, bookingID string) ([]*model.DailyLog, error) {
	if _, err := s.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}

	logs, err := s.logRepo.FindByBooking(ctx, bookingID)
	if err != nil {
		s.cfg.Log.Error("Failed to retrieve daily logs", "booking_id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve daily logs", err)
	}
	return logs, nil
}

func (s *bookingService) UpdateLog(ctx context.Context, logID string, update *model.DailyLogUpdate) error {
	if logID == "" {
		return apperrors.InvalidInput("Daily log ID cannot be empty")
	}
	if err := s.validator.ValidateLogUpdate(update); err != nil {
		s.cfg.Log.Warn("Daily log update validation failed", "id", logID, "error", err)
		return apperrors.Validation("Invalid daily log update", map[string]any{"error": err.Error()})
	}

	update.Notes = sanitizer.TrimAndNormalize(update.Notes)

	if err := s.logRepo.Update(ctx, logID, update.Status, update.Notes); err != nil {
		if errors.Is(err, bookingserrors.ErrLogNotFound) {
			return apperrors.NotFoundWithID("Daily log", logID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid daily log ID format")
		}
		s.cfg.Log.Error("Failed to update daily log", "id", logID, "error", err)
		return apperrors.Internal("Failed to update daily log", err)
	}

	s.cfg.Log.Info("Daily log updated", "id", logID, "status", update.Status)
	return nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.BookingStatusUpcoming
	}
	if b.DurationDays == 0 {
		b.DurationDays = 1
	}
	b.Date = b.Date.UTC().Truncate(24 * time.Hour)
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.SlotTime = sanitizer.NormalizeSlotLabel(b.SlotTime)
	b.Notes = sanitizer.TrimAndNormalize(b.Notes)
}

// applyPricing computes payment fields server-side: the total comes from the
// specialist's per-location price, pay-later starts at zero and prepaid is
// charged in full.
func (s *bookingService) applyPricing(ctx context.Context, b *model.Booking) error {
	specialist, err := s.specialists.FindByID(ctx, b.SpecialistID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrSpecialistNotFound) {
			return apperrors.NotFoundWithID("Specialist", b.SpecialistID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid specialist ID format")
		}
		return apperrors.Internal("Failed to look up specialist", err)
	}

	days := b.DurationDays
	if days < 1 {
		days = 1
	}
	b.TotalPrice = specialist.PriceFor(b.LocationType) * int64(days)

	switch b.PaymentMode {
	case model.PaymentModePrepaid:
		b.AmountPaid = b.TotalPrice
	default:
		b.AmountPaid = 0
	}
	return nil
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) enforceBookingRate(ctx context.Context, patientID string) error {
	since := time.Now().UTC().Add(-s.cfg.BookingRateWindow)

	recent, err := s.repo.CountRecentByPatient(ctx, patientID, since)
	if err != nil {
		return apperrors.Internal("Failed to check booking rate", err)
	}
	if recent >= int64(s.cfg.BookingRateLimit) {
		s.cfg.Log.Warn("Booking rate limit exceeded", "patient_id", patientID, "recent", recent)
		return apperrors.RateLimited(fmt.Sprintf(
			"Too many bookings: at most %d allowed per %s", s.cfg.BookingRateLimit, s.cfg.BookingRateWindow,
		))
	}
	return nil
}

func (s *bookingService) slotTakenError(b *model.Booking) error {
	appErr := apperrors.Conflict(fmt.Sprintf(
		"Slot %s on %s is already booked", b.SlotTime, b.Date.Format(time.DateOnly),
	))
	appErr.Err = bookingserrors.ErrSlotTaken
	return appErr
}

func buildDailyLogs(b *model.Booking) []*model.DailyLog {
	logs := make([]*model.DailyLog, 0, b.DurationDays)
	for i := 0; i < b.DurationDays; i++ {
		logs = append(logs, &model.DailyLog{
			BookingID: b.ID,
			Date:      b.Date.AddDate(0, 0, i),
			Status:    model.DailyLogStatusPending,
		})
	}
	return logs
}

// acquireSlotLock creates an advisory lock on the slot coordinates so only
// one request at a time runs the booking transaction for that slot.
func (s *bookingService) acquireSlotLock(ctx context.Context, specialistID string, date time.Time, slotTime string) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%s_%s", specialistID, date.Format(time.DateOnly), slotTime)

	lock := &repository.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(10 * time.Second),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
