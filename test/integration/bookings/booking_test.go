package integrationtests

import (
	"fmt"
	"net/http"
	"slices"
	"testing"
	"time"

	"careslot/pkg/model"
	"careslot/test/integration/testutil"
)

// End-to-end booking flow against a deployed stack. Requires the bookings
// and specialists services plus their Mongo backend; run the migrate job
// first so the partial unique booking index exists.

const patientID = "aaaaaaaaaaaaaaaaaaaa0001"

func TestBookingLifecycle(t *testing.T) {
	bookings := testutil.NewClient(testutil.ServiceURL(t, "TEST_BOOKINGS_URL"))
	specialists := testutil.NewClient(testutil.ServiceURL(t, "TEST_SPECIALISTS_URL"))

	bookings.WaitForHealthy(t, 30*time.Second)
	specialists.WaitForHealthy(t, 30*time.Second)

	specialistID := createSpecialist(t, specialists)
	date := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")

	booking := createBooking(t, bookings, map[string]any{
		"specialist_id": specialistID,
		"patient_id":    patientID,
		"date":          date + "T00:00:00Z",
		"slot_time":     "10:00 AM",
		"duration_days": 1,
		"location_type": "CLINIC",
		"payment_mode":  "PAY_LATER",
	})
	if booking.Status != model.BookingStatusUpcoming {
		t.Errorf("expected UPCOMING booking, got %s", booking.Status)
	}
	if booking.TotalPrice != 500 {
		t.Errorf("expected server-side price 500, got %d", booking.TotalPrice)
	}

	t.Run("double booking rejected", func(t *testing.T) {
		resp := bookings.POST(t, "/api/v1/bookings", map[string]any{
			"specialist_id": specialistID,
			"patient_id":    "aaaaaaaaaaaaaaaaaaaa0002",
			"date":          date + "T00:00:00Z",
			"slot_time":     "10:00 AM",
			"duration_days": 1,
			"location_type": "VIDEO",
			"payment_mode":  "PAY_LATER",
		})
		testutil.AssertStatusCode(t, resp, http.StatusConflict)
	})

	t.Run("availability reports busy slot", func(t *testing.T) {
		resp := bookings.GET(t, fmt.Sprintf(
			"/api/v1/bookings/availability?specialist_id=%s&date=%s", specialistID, date))
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result struct {
			Data model.Availability `json:"data"`
		}
		if err := resp.DecodeJSON(&result); err != nil {
			t.Fatalf("failed to decode availability: %v", err)
		}
		if !slices.Contains(result.Data.BusySlots, "10:00 AM") {
			t.Errorf("expected 10:00 AM in busy slots, got %v", result.Data.BusySlots)
		}
	})

	t.Run("payments accumulate up to total", func(t *testing.T) {
		resp := bookings.POST(t, "/api/v1/bookings/id/"+booking.ID+"/payments",
			map[string]any{"amount": 200})
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		resp = bookings.POST(t, "/api/v1/bookings/id/"+booking.ID+"/payments",
			map[string]any{"amount": 10000})
		testutil.AssertStatusCode(t, resp, http.StatusUnprocessableEntity)
	})

	t.Run("cancel frees the slot", func(t *testing.T) {
		resp := bookings.POST(t, "/api/v1/bookings/id/"+booking.ID+"/cancel", nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		// idempotent
		resp = bookings.POST(t, "/api/v1/bookings/id/"+booking.ID+"/cancel", nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		rebooked := createBooking(t, bookings, map[string]any{
			"specialist_id": specialistID,
			"patient_id":    "aaaaaaaaaaaaaaaaaaaa0003",
			"date":          date + "T00:00:00Z",
			"slot_time":     "10:00 AM",
			"duration_days": 1,
			"location_type": "CLINIC",
			"payment_mode":  "PAY_LATER",
		})
		if rebooked.ID == booking.ID {
			t.Error("expected a new booking document after cancellation")
		}
	})
}

func TestCourseBookingDailyLogs(t *testing.T) {
	bookings := testutil.NewClient(testutil.ServiceURL(t, "TEST_BOOKINGS_URL"))
	specialists := testutil.NewClient(testutil.ServiceURL(t, "TEST_SPECIALISTS_URL"))

	specialistID := createSpecialist(t, specialists)
	date := time.Now().UTC().AddDate(0, 0, 14).Format("2006-01-02")

	booking := createBooking(t, bookings, map[string]any{
		"specialist_id": specialistID,
		"patient_id":    patientID,
		"date":          date + "T00:00:00Z",
		"slot_time":     "08:30 AM",
		"duration_days": 3,
		"location_type": "HOME",
		"payment_mode":  "PREPAID",
	})
	if booking.AmountPaid != booking.TotalPrice {
		t.Errorf("prepaid booking should be charged in full: paid %d of %d",
			booking.AmountPaid, booking.TotalPrice)
	}

	resp := bookings.GET(t, "/api/v1/bookings/id/"+booking.ID+"/logs")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result struct {
		Data []model.DailyLog `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode daily logs: %v", err)
	}
	if len(result.Data) != 3 {
		t.Fatalf("expected 3 daily logs, got %d", len(result.Data))
	}
	for _, dayLog := range result.Data {
		if dayLog.Status != model.DailyLogStatusPending {
			t.Errorf("expected PENDING log, got %s", dayLog.Status)
		}
	}
}

func TestSweepEndpoint(t *testing.T) {
	bookings := testutil.NewClient(testutil.ServiceURL(t, "TEST_BOOKINGS_URL"))

	resp := bookings.POST(t, "/api/v1/bookings/sweep", nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result struct {
		Data struct {
			Skipped int64 `json:"skipped"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode sweep result: %v", err)
	}
	if result.Data.Skipped < 0 {
		t.Errorf("unexpected negative skipped count: %d", result.Data.Skipped)
	}
}

func createSpecialist(t *testing.T, specialists *testutil.Client) string {
	t.Helper()

	resp := specialists.POST(t, "/api/v1/specialists", map[string]any{
		"name":         "Dr. Integration",
		"specialty":    "Physiotherapy",
		"phone":        "+972501234567",
		"city":         "Haifa",
		"clinic_price": 500,
		"home_price":   800,
		"video_price":  300,
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var result struct {
		Data model.Specialist `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode specialist: %v", err)
	}
	return result.Data.ID
}

func createBooking(t *testing.T, bookings *testutil.Client, body map[string]any) *model.Booking {
	t.Helper()

	resp := bookings.POST(t, "/api/v1/bookings", body)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var result struct {
		Data model.Booking `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode booking: %v", err)
	}
	return &result.Data
}
