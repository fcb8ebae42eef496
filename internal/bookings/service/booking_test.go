package service

import (
	"context"
	"errors"
	"io"
	"slices"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "careslot/internal/bookings/errors"
	"careslot/internal/bookings/repository"
	"careslot/internal/bookings/validator"
	"careslot/pkg/config"
	mongotx "careslot/pkg/db/mongo"
	apperrors "careslot/pkg/errors"
	"careslot/pkg/logger"
	"careslot/pkg/model"
)

// Mock repositories for testing

type mockBookingRepository struct {
	createFunc               func(ctx context.Context, booking *model.Booking) error
	findByIDFunc             func(ctx context.Context, id string) (*model.Booking, error)
	findAllFunc              func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	countFunc                func(ctx context.Context) (int64, error)
	searchFunc               func(ctx context.Context, filter repository.SearchFilter, limit int, offset int64) ([]*model.Booking, error)
	countSearchFunc          func(ctx context.Context, filter repository.SearchFilter) (int64, error)
	setStatusFunc            func(ctx context.Context, id string, status string) error
	setAmountPaidFunc        func(ctx context.Context, id string, amountPaid int64) error
	existsActiveSlotFunc     func(ctx context.Context, specialistID string, date time.Time, slotTime string) (bool, error)
	findActiveByDateFunc     func(ctx context.Context, specialistID string, date time.Time) ([]*model.Booking, error)
	findCoursesInWindowFunc  func(ctx context.Context, specialistID string, from, until time.Time) ([]*model.Booking, error)
	countRecentByPatientFunc func(ctx context.Context, patientID string, since time.Time) (int64, error)
	markStaleSkippedFunc     func(ctx context.Context, before time.Time) (int64, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "507f1f77bcf86cd799439099"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not configured")
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockBookingRepository) Search(ctx context.Context, filter repository.SearchFilter, limit int, offset int64) ([]*model.Booking, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, filter, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountSearch(ctx context.Context, filter repository.SearchFilter) (int64, error) {
	if m.countSearchFunc != nil {
		return m.countSearchFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockBookingRepository) SetStatus(ctx context.Context, id string, status string) error {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) SetAmountPaid(ctx context.Context, id string, amountPaid int64) error {
	if m.setAmountPaidFunc != nil {
		return m.setAmountPaidFunc(ctx, id, amountPaid)
	}
	return nil
}

func (m *mockBookingRepository) ExistsActiveSlot(ctx context.Context, specialistID string, date time.Time, slotTime string) (bool, error) {
	if m.existsActiveSlotFunc != nil {
		return m.existsActiveSlotFunc(ctx, specialistID, date, slotTime)
	}
	return false, nil
}

func (m *mockBookingRepository) FindActiveByDate(ctx context.Context, specialistID string, date time.Time) ([]*model.Booking, error) {
	if m.findActiveByDateFunc != nil {
		return m.findActiveByDateFunc(ctx, specialistID, date)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindCoursesInWindow(ctx context.Context, specialistID string, from, until time.Time) ([]*model.Booking, error) {
	if m.findCoursesInWindowFunc != nil {
		return m.findCoursesInWindowFunc(ctx, specialistID, from, until)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountRecentByPatient(ctx context.Context, patientID string, since time.Time) (int64, error) {
	if m.countRecentByPatientFunc != nil {
		return m.countRecentByPatientFunc(ctx, patientID, since)
	}
	return 0, nil
}

func (m *mockBookingRepository) MarkStaleSkipped(ctx context.Context, before time.Time) (int64, error) {
	if m.markStaleSkippedFunc != nil {
		return m.markStaleSkippedFunc(ctx, before)
	}
	return 0, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *repository.BookingLock) (*repository.BookingLock, error)
	deleteFunc func(ctx context.Context, lockID string) error
	created    []string
	deleted    []string
}

func (m *mockLockRepository) Create(ctx context.Context, lock *repository.BookingLock) (*repository.BookingLock, error) {
	m.created = append(m.created, lock.ID)
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	m.deleted = append(m.deleted, lockID)
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, lockID)
	}
	return nil
}

type mockDailyLogRepository struct {
	createManyFunc    func(ctx context.Context, logs []*model.DailyLog) error
	findByBookingFunc func(ctx context.Context, bookingID string) ([]*model.DailyLog, error)
	findByIDFunc      func(ctx context.Context, id string) (*model.DailyLog, error)
	updateFunc        func(ctx context.Context, id string, status string, notes string) error
	createdLogs       []*model.DailyLog
}

func (m *mockDailyLogRepository) CreateMany(ctx context.Context, logs []*model.DailyLog) error {
	m.createdLogs = append(m.createdLogs, logs...)
	if m.createManyFunc != nil {
		return m.createManyFunc(ctx, logs)
	}
	return nil
}

func (m *mockDailyLogRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.DailyLog, error) {
	if m.findByBookingFunc != nil {
		return m.findByBookingFunc(ctx, bookingID)
	}
	return []*model.DailyLog{}, nil
}

func (m *mockDailyLogRepository) FindByID(ctx context.Context, id string) (*model.DailyLog, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not configured")
}

func (m *mockDailyLogRepository) Update(ctx context.Context, id string, status string, notes string) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, status, notes)
	}
	return nil
}

type mockSlotBlockReader struct {
	findBlockedByDateFunc func(ctx context.Context, specialistID string, date time.Time) ([]*model.Slot, error)
	deleteBlockFunc       func(ctx context.Context, specialistID string, date time.Time, slotTime string) error
	deletedBlocks         []string
}

func (m *mockSlotBlockReader) FindBlockedByDate(ctx context.Context, specialistID string, date time.Time) ([]*model.Slot, error) {
	if m.findBlockedByDateFunc != nil {
		return m.findBlockedByDateFunc(ctx, specialistID, date)
	}
	return []*model.Slot{}, nil
}

func (m *mockSlotBlockReader) DeleteBlock(ctx context.Context, specialistID string, date time.Time, slotTime string) error {
	m.deletedBlocks = append(m.deletedBlocks, slotTime)
	if m.deleteBlockFunc != nil {
		return m.deleteBlockFunc(ctx, specialistID, date, slotTime)
	}
	return nil
}

type mockSpecialistReader struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Specialist, error)
}

func (m *mockSpecialistReader) FindByID(ctx context.Context, id string) (*model.Specialist, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Specialist{
		ID:          id,
		Name:        "Dr. Test",
		ClinicPrice: 500,
		HomePrice:   800,
		VideoPrice:  300,
	}, nil
}

type mockNotifier struct {
	created   []*model.Booking
	cancelled []*model.Booking
}

func (m *mockNotifier) BookingCreated(ctx context.Context, b *model.Booking)   { m.created = append(m.created, b) }
func (m *mockNotifier) BookingCancelled(ctx context.Context, b *model.Booking) { m.cancelled = append(m.cancelled, b) }
func (m *mockNotifier) Close() error                                           { return nil }

type testFixture struct {
	service     *bookingService
	repo        *mockBookingRepository
	locks       *mockLockRepository
	logs        *mockDailyLogRepository
	slotBlocks  *mockSlotBlockReader
	specialists *mockSpecialistReader
	notifier    *mockNotifier
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	log := logger.New(logger.Config{Level: "error", Format: logger.TEXT, Output: io.Discard})
	cfg := &config.Config{
		Log:                   log,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
		BookingRateLimit:      3,
		BookingRateWindow:     60 * time.Second,
		MaxCourseDurationDays: 30,
		SweepBuffer:           24 * time.Hour,
	}

	f := &testFixture{
		repo:        &mockBookingRepository{},
		locks:       &mockLockRepository{},
		logs:        &mockDailyLogRepository{},
		slotBlocks:  &mockSlotBlockReader{},
		specialists: &mockSpecialistReader{},
		notifier:    &mockNotifier{},
	}
	f.service = &bookingService{
		repo:        f.repo,
		lockRepo:    f.locks,
		logRepo:     f.logs,
		slotBlocks:  f.slotBlocks,
		specialists: f.specialists,
		notifier:    f.notifier,
		validator:   validator.NewBookingValidator(log, cfg.MaxCourseDurationDays),
		cfg:         cfg,
	}
	return f
}

func newBookingRequest() *model.Booking {
	return &model.Booking{
		SpecialistID: "507f1f77bcf86cd799439011",
		PatientID:    "507f1f77bcf86cd799439012",
		Date:         time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour),
		SlotTime:     "10:00 AM",
		DurationDays: 1,
		LocationType: model.LocationClinic,
		PaymentMode:  model.PaymentModePayLater,
	}
}

func assertStatus(t *testing.T, err error, wantStatus int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", wantStatus)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != wantStatus {
		t.Fatalf("expected status %d, got %d (%v)", wantStatus, appErr.StatusCode(), err)
	}
}

func TestCreate_Success(t *testing.T) {
	f := newTestFixture(t)

	booking := newBookingRequest()
	if err := f.service.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.ID == "" {
		t.Error("expected booking ID to be set")
	}
	if booking.Status != model.BookingStatusUpcoming {
		t.Errorf("expected status UPCOMING, got %s", booking.Status)
	}
	if booking.TotalPrice != 500 {
		t.Errorf("expected clinic price 500, got %d", booking.TotalPrice)
	}
	if booking.AmountPaid != 0 {
		t.Errorf("pay-later booking must start unpaid, got %d", booking.AmountPaid)
	}
	if len(f.logs.createdLogs) != 1 {
		t.Errorf("expected 1 daily log, got %d", len(f.logs.createdLogs))
	}
	if len(f.notifier.created) != 1 {
		t.Errorf("expected 1 created event, got %d", len(f.notifier.created))
	}
	if len(f.locks.created) != 1 || len(f.locks.deleted) != 1 {
		t.Errorf("expected lock acquired and released, got %d/%d", len(f.locks.created), len(f.locks.deleted))
	}
}

func TestCreate_CourseBookingCreatesDailyLogs(t *testing.T) {
	f := newTestFixture(t)

	booking := newBookingRequest()
	booking.DurationDays = 5

	if err := f.service.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.logs.createdLogs) != 5 {
		t.Fatalf("expected 5 daily logs, got %d", len(f.logs.createdLogs))
	}
	for i, log := range f.logs.createdLogs {
		wantDate := booking.Date.AddDate(0, 0, i)
		if !log.Date.Equal(wantDate) {
			t.Errorf("log %d: expected date %v, got %v", i, wantDate, log.Date)
		}
		if log.Status != model.DailyLogStatusPending {
			t.Errorf("log %d: expected status PENDING, got %s", i, log.Status)
		}
	}
	if booking.TotalPrice != 2500 {
		t.Errorf("expected total price 500*5=2500, got %d", booking.TotalPrice)
	}
}

func TestCreate_PrepaidChargedInFull(t *testing.T) {
	f := newTestFixture(t)

	booking := newBookingRequest()
	booking.PaymentMode = model.PaymentModePrepaid

	if err := f.service.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.AmountPaid != booking.TotalPrice {
		t.Errorf("prepaid booking must be paid in full: paid %d, total %d", booking.AmountPaid, booking.TotalPrice)
	}
}

func TestCreate_SlotTakenInTransaction(t *testing.T) {
	f := newTestFixture(t)
	f.repo.existsActiveSlotFunc = func(ctx context.Context, specialistID string, date time.Time, slotTime string) (bool, error) {
		return true, nil
	}

	err := f.service.Create(context.Background(), newBookingRequest())
	assertStatus(t, err, 409)

	if len(f.notifier.created) != 0 {
		t.Error("no event must be published for a failed booking")
	}
	if len(f.locks.deleted) != 1 {
		t.Error("lock must be released even when the transaction fails")
	}
}

func TestCreate_AdvisoryCheckRejectsCourseOverlap(t *testing.T) {
	f := newTestFixture(t)

	booking := newBookingRequest()
	courseStart := booking.Date.AddDate(0, 0, -2)
	f.repo.findCoursesInWindowFunc = func(ctx context.Context, specialistID string, from, until time.Time) ([]*model.Booking, error) {
		return []*model.Booking{{
			SpecialistID: specialistID,
			Date:         courseStart,
			SlotTime:     "10:00 AM",
			DurationDays: 5,
			Status:       model.BookingStatusUpcoming,
		}}, nil
	}

	err := f.service.Create(context.Background(), booking)
	assertStatus(t, err, 409)
}

func TestCreate_LockContention(t *testing.T) {
	f := newTestFixture(t)
	f.locks.createFunc = func(ctx context.Context, lock *repository.BookingLock) (*repository.BookingLock, error) {
		return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}

	err := f.service.Create(context.Background(), newBookingRequest())
	assertStatus(t, err, 409)
}

func TestCreate_RateLimited(t *testing.T) {
	f := newTestFixture(t)
	f.repo.countRecentByPatientFunc = func(ctx context.Context, patientID string, since time.Time) (int64, error) {
		return 3, nil
	}

	err := f.service.Create(context.Background(), newBookingRequest())
	assertStatus(t, err, 429)

	if len(f.locks.created) != 0 {
		t.Error("rate-limited request must not touch the lock collection")
	}
}

func TestCreate_UnknownSpecialist(t *testing.T) {
	f := newTestFixture(t)
	f.specialists.findByIDFunc = func(ctx context.Context, id string) (*model.Specialist, error) {
		return nil, bookingserrors.ErrSpecialistNotFound
	}

	err := f.service.Create(context.Background(), newBookingRequest())
	assertStatus(t, err, 404)
}

func TestCreate_ValidationFailure(t *testing.T) {
	f := newTestFixture(t)

	booking := newBookingRequest()
	booking.SlotTime = "25:00"

	err := f.service.Create(context.Background(), booking)
	assertStatus(t, err, 422)
}

func TestAvailability_CourseBlocksThroughEndDate(t *testing.T) {
	f := newTestFixture(t)

	courseStart := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	f.repo.findCoursesInWindowFunc = func(ctx context.Context, specialistID string, from, until time.Time) ([]*model.Booking, error) {
		course := &model.Booking{
			SpecialistID: specialistID,
			Date:         courseStart,
			SlotTime:     "10:00 AM",
			DurationDays: 5,
			Status:       model.BookingStatusUpcoming,
		}
		if courseStart.Before(until) && !courseStart.Before(from) {
			return []*model.Booking{course}, nil
		}
		return []*model.Booking{}, nil
	}

	// 5-day course starting 06-01 blocks 10:00 AM through 06-05.
	for day := 2; day <= 5; day++ {
		date := time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC)
		avail, err := f.service.Availability(context.Background(), "507f1f77bcf86cd799439011", date)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Contains(avail.BusySlots, "10:00 AM") {
			t.Errorf("expected 10:00 AM busy on 06-%02d", day)
		}
	}

	// The day after the course ends is free again.
	after := time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC)
	avail, err := f.service.Availability(context.Background(), "507f1f77bcf86cd799439011", after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slices.Contains(avail.BusySlots, "10:00 AM") {
		t.Error("expected 10:00 AM free on 06-06")
	}
}

func TestAvailability_UnionsAllSources(t *testing.T) {
	f := newTestFixture(t)

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	f.repo.findActiveByDateFunc = func(ctx context.Context, specialistID string, d time.Time) ([]*model.Booking, error) {
		return []*model.Booking{
			{SlotTime: "09:00 AM"},
			{SlotTime: "11:00 AM"},
		}, nil
	}
	f.repo.findCoursesInWindowFunc = func(ctx context.Context, specialistID string, from, until time.Time) ([]*model.Booking, error) {
		return []*model.Booking{
			{Date: date.AddDate(0, 0, -1), SlotTime: "09:00 AM", DurationDays: 3}, // dup of same-day
			{Date: date.AddDate(0, 0, -2), SlotTime: "02:00 PM", DurationDays: 3},
			{Date: date.AddDate(0, 0, -5), SlotTime: "04:00 PM", DurationDays: 2}, // already ended
		}, nil
	}
	f.slotBlocks.findBlockedByDateFunc = func(ctx context.Context, specialistID string, d time.Time) ([]*model.Slot, error) {
		return []*model.Slot{
			{StartTime: "08:00 AM", IsBooked: true},
			{StartTime: "03:00 PM", IsBooked: false}, // open override, not busy
		}, nil
	}

	avail, err := f.service.Availability(context.Background(), "507f1f77bcf86cd799439011", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"02:00 PM", "08:00 AM", "09:00 AM", "11:00 AM"}
	if !slices.Equal(avail.BusySlots, want) {
		t.Errorf("expected busy slots %v, got %v", want, avail.BusySlots)
	}
}

func TestCancel_ClearsSlotBlock(t *testing.T) {
	f := newTestFixture(t)

	booking := newBookingRequest()
	booking.ID = "507f1f77bcf86cd799439099"
	booking.Status = model.BookingStatusUpcoming
	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		b := *booking
		return &b, nil
	}

	var setStatus string
	f.repo.setStatusFunc = func(ctx context.Context, id string, status string) error {
		setStatus = status
		return nil
	}

	cancelled, err := f.service.Cancel(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if setStatus != model.BookingStatusCancelled {
		t.Errorf("expected status CANCELLED, got %s", setStatus)
	}
	if cancelled.Status != model.BookingStatusCancelled {
		t.Errorf("expected returned booking CANCELLED, got %s", cancelled.Status)
	}
	if len(f.slotBlocks.deletedBlocks) != 1 || f.slotBlocks.deletedBlocks[0] != booking.SlotTime {
		t.Errorf("expected slot block %q cleared, got %v", booking.SlotTime, f.slotBlocks.deletedBlocks)
	}
	if len(f.notifier.cancelled) != 1 {
		t.Errorf("expected 1 cancelled event, got %d", len(f.notifier.cancelled))
	}
}

func TestCancel_AlreadyCancelledIsIdempotent(t *testing.T) {
	f := newTestFixture(t)

	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: id, Status: model.BookingStatusCancelled}, nil
	}

	if _, err := f.service.Cancel(context.Background(), "507f1f77bcf86cd799439099"); err != nil {
		t.Fatalf("cancelling twice must not fail: %v", err)
	}
	if len(f.slotBlocks.deletedBlocks) != 0 {
		t.Error("already-cancelled booking must not touch slot blocks again")
	}
}

func TestCancel_CompletedRejected(t *testing.T) {
	f := newTestFixture(t)

	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: id, Status: model.BookingStatusCompleted}, nil
	}

	_, err := f.service.Cancel(context.Background(), "507f1f77bcf86cd799439099")
	assertStatus(t, err, 409)
}

func TestCancel_SkippedRejected(t *testing.T) {
	f := newTestFixture(t)

	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: id, Status: model.BookingStatusSkipped}, nil
	}

	var setStatus string
	f.repo.setStatusFunc = func(ctx context.Context, id string, status string) error {
		setStatus = status
		return nil
	}

	_, err := f.service.Cancel(context.Background(), "507f1f77bcf86cd799439099")
	assertStatus(t, err, 409)

	if setStatus != "" {
		t.Errorf("skipped booking must stay terminal, but status was set to %s", setStatus)
	}
	if len(f.slotBlocks.deletedBlocks) != 0 {
		t.Errorf("expected no slot block deletes, got %v", f.slotBlocks.deletedBlocks)
	}
	if len(f.notifier.cancelled) != 0 {
		t.Errorf("expected no cancellation event, got %d", len(f.notifier.cancelled))
	}
}

func TestUpdateStatus_TerminalBookingImmutable(t *testing.T) {
	f := newTestFixture(t)

	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{ID: id, Status: model.BookingStatusSkipped}, nil
	}

	err := f.service.UpdateStatus(context.Background(), "507f1f77bcf86cd799439099",
		&model.BookingStatusUpdate{Status: model.BookingStatusCompleted})
	assertStatus(t, err, 409)
}

func TestRecordPayment_AccumulatesUpToTotal(t *testing.T) {
	f := newTestFixture(t)

	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{
			ID:         id,
			Status:     model.BookingStatusUpcoming,
			TotalPrice: 500,
			AmountPaid: 300,
		}, nil
	}

	var recorded int64
	f.repo.setAmountPaidFunc = func(ctx context.Context, id string, amountPaid int64) error {
		recorded = amountPaid
		return nil
	}

	booking, err := f.service.RecordPayment(context.Background(), "507f1f77bcf86cd799439099",
		&model.PaymentRequest{Amount: 200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recorded != 500 || booking.AmountPaid != 500 {
		t.Errorf("expected amount paid 500, got repo=%d returned=%d", recorded, booking.AmountPaid)
	}
}

func TestRecordPayment_ExceedsBalance(t *testing.T) {
	f := newTestFixture(t)

	f.repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return &model.Booking{
			ID:         id,
			Status:     model.BookingStatusUpcoming,
			TotalPrice: 500,
			AmountPaid: 400,
		}, nil
	}

	_, err := f.service.RecordPayment(context.Background(), "507f1f77bcf86cd799439099",
		&model.PaymentRequest{Amount: 200})
	assertStatus(t, err, 422)
}

func TestSweepStale(t *testing.T) {
	f := newTestFixture(t)

	var cutoff time.Time
	f.repo.markStaleSkippedFunc = func(ctx context.Context, before time.Time) (int64, error) {
		cutoff = before
		return 7, nil
	}

	skipped, err := f.service.SweepStale(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 7 {
		t.Errorf("expected 7 skipped, got %d", skipped)
	}

	wantCutoff := time.Now().UTC().Add(-24 * time.Hour)
	if cutoff.Before(wantCutoff.Add(-time.Minute)) || cutoff.After(wantCutoff.Add(time.Minute)) {
		t.Errorf("cutoff %v not within a minute of %v", cutoff, wantCutoff)
	}
}
