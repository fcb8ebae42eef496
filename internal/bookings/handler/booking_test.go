package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"careslot/internal/bookings/repository"
	apperrors "careslot/pkg/errors"
	httputil "careslot/pkg/http"
	"careslot/pkg/logger"
	"careslot/pkg/middleware"
	"careslot/pkg/model"
)

// Mock service for testing
type mockBookingService struct {
	createFunc        func(ctx context.Context, booking *model.Booking) error
	getByIDFunc       func(ctx context.Context, id string) (*model.Booking, error)
	searchFunc        func(ctx context.Context, filter repository.SearchFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	cancelFunc        func(ctx context.Context, id string) (*model.Booking, error)
	recordPaymentFunc func(ctx context.Context, id string, payment *model.PaymentRequest) (*model.Booking, error)
	availabilityFunc  func(ctx context.Context, specialistID string, date time.Time) (*model.Availability, error)
	sweepStaleFunc    func(ctx context.Context) (int64, error)
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Search(ctx context.Context, filter repository.SearchFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, filter, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) error {
	return nil
}

func (m *mockBookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id)
	}
	return &model.Booking{ID: id, Status: model.BookingStatusCancelled}, nil
}

func (m *mockBookingService) RecordPayment(ctx context.Context, id string, payment *model.PaymentRequest) (*model.Booking, error) {
	if m.recordPaymentFunc != nil {
		return m.recordPaymentFunc(ctx, id, payment)
	}
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingService) SweepStale(ctx context.Context) (int64, error) {
	if m.sweepStaleFunc != nil {
		return m.sweepStaleFunc(ctx)
	}
	return 0, nil
}

func (m *mockBookingService) GetLogs(ctx context.Context, bookingID string) ([]*model.DailyLog, error) {
	return []*model.DailyLog{}, nil
}

func (m *mockBookingService) UpdateLog(ctx context.Context, logID string, update *model.DailyLogUpdate) error {
	return nil
}

func (m *mockBookingService) Availability(ctx context.Context, specialistID string, date time.Time) (*model.Availability, error) {
	if m.availabilityFunc != nil {
		return m.availabilityFunc(ctx, specialistID, date)
	}
	return &model.Availability{SpecialistID: specialistID, Date: date, BusySlots: []string{}}, nil
}

func newTestHandler(service *mockBookingService) *BookingHandler {
	log := logger.New(logger.Config{Level: "error", Format: logger.TEXT, Output: io.Discard})
	return NewBookingHandler(service, log, false)
}

func TestCreate_ReturnsCreated(t *testing.T) {
	handler := newTestHandler(&mockBookingService{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = "507f1f77bcf86cd799439099"
			booking.Status = model.BookingStatusUpcoming
			return nil
		},
	})

	body, _ := json.Marshal(model.Booking{
		SpecialistID: "507f1f77bcf86cd799439011",
		PatientID:    "507f1f77bcf86cd799439012",
		Date:         time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		SlotTime:     "10:00 AM",
		DurationDays: 1,
		LocationType: model.LocationClinic,
		PaymentMode:  model.PaymentModePayLater,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp httputil.SuccessResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	handler := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestCreate_SlotTakenReturnsConflict(t *testing.T) {
	handler := newTestHandler(&mockBookingService{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			return apperrors.Conflict("Slot 10:00 AM on 2026-10-01 is already booked")
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}

	var resp httputil.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, resp.Code)
	}
}

func TestCreate_RateLimitedReturns429(t *testing.T) {
	handler := newTestHandler(&mockBookingService{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			return apperrors.RateLimited("Too many bookings")
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()

	handler.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", w.Code)
	}
}

func TestAvailability_RequiresParameters(t *testing.T) {
	handler := newTestHandler(&mockBookingService{})

	tests := []struct {
		name        string
		queryString string
		wantCode    int
	}{
		{"missing specialist_id", "?date=2026-10-01", http.StatusBadRequest},
		{"missing date", "?specialist_id=507f1f77bcf86cd799439011", http.StatusBadRequest},
		{"bad date format", "?specialist_id=507f1f77bcf86cd799439011&date=01-10-2026", http.StatusBadRequest},
		{"valid", "?specialist_id=507f1f77bcf86cd799439011&date=2026-10-01", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/availability"+tt.queryString, nil)
			w := httptest.NewRecorder()

			handler.Availability(w, req, httprouter.Params{})

			if w.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
		})
	}
}

func TestAvailability_ReturnsBusySlots(t *testing.T) {
	handler := newTestHandler(&mockBookingService{
		availabilityFunc: func(ctx context.Context, specialistID string, date time.Time) (*model.Availability, error) {
			return &model.Availability{
				SpecialistID: specialistID,
				Date:         date,
				BusySlots:    []string{"09:00 AM", "10:00 AM"},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/bookings/availability?specialist_id=507f1f77bcf86cd799439011&date=2026-10-01", nil)
	w := httptest.NewRecorder()

	handler.Availability(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data model.Availability `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data.BusySlots) != 2 {
		t.Errorf("expected 2 busy slots, got %v", resp.Data.BusySlots)
	}
}

func TestSearch_PassesFilter(t *testing.T) {
	var captured repository.SearchFilter
	handler := newTestHandler(&mockBookingService{
		searchFunc: func(ctx context.Context, filter repository.SearchFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
			captured = filter
			return []*model.Booking{}, 0, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/bookings/search?specialist_id=507f1f77bcf86cd799439011&status=UPCOMING&from=2026-10-01", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if captured.SpecialistID != "507f1f77bcf86cd799439011" {
		t.Errorf("expected specialist filter, got %q", captured.SpecialistID)
	}
	if captured.Status != model.BookingStatusUpcoming {
		t.Errorf("expected status filter UPCOMING, got %q", captured.Status)
	}
	if captured.FromDate == nil || !captured.FromDate.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected from date 2026-10-01, got %v", captured.FromDate)
	}
}

func TestCancel_ReturnsCancelledBooking(t *testing.T) {
	handler := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/abc/cancel", nil)
	w := httptest.NewRecorder()

	handler.Cancel(w, req, httprouter.Params{{Key: "id", Value: "abc"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data model.Booking `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Status != model.BookingStatusCancelled {
		t.Errorf("expected status CANCELLED, got %s", resp.Data.Status)
	}
}

func TestRecordPayment_InvalidBody(t *testing.T) {
	handler := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/abc/payments", bytes.NewReader([]byte("nope")))
	w := httptest.NewRecorder()

	handler.RecordPayment(w, req, httprouter.Params{{Key: "id", Value: "abc"}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestSweep_ReturnsSkippedCount(t *testing.T) {
	handler := newTestHandler(&mockBookingService{
		sweepStaleFunc: func(ctx context.Context) (int64, error) {
			return 4, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/sweep", nil)
	w := httptest.NewRecorder()

	handler.Sweep(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data["skipped"] != 4 {
		t.Errorf("expected 4 skipped, got %d", resp.Data["skipped"])
	}
}

func TestSweep_RequiresAdminRole(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: logger.TEXT, Output: io.Discard})
	handler := NewBookingHandler(&mockBookingService{
		sweepStaleFunc: func(ctx context.Context) (int64, error) {
			return 1, nil
		},
	}, log, true)

	router := httprouter.New()
	handler.RegisterRoutes(router)

	tests := []struct {
		name       string
		claims     *middleware.Claims
		wantStatus int
	}{
		{"no claims", nil, http.StatusForbidden},
		{"patient role", &middleware.Claims{Role: middleware.RolePatient}, http.StatusForbidden},
		{"admin role", &middleware.Claims{Role: middleware.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/sweep", nil)
			if tt.claims != nil {
				req = req.WithContext(middleware.ContextWithClaims(req.Context(), tt.claims))
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}
