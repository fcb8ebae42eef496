package service

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "careslot/pkg/errors"
	"careslot/pkg/model"
)

// Availability returns the busy slot labels for a specialist on a date by
// unioning same-day bookings, active course bookings and manual blocks.
// The result is advisory; booking creation re-checks inside its transaction.
func (s *bookingService) Availability(ctx context.Context, specialistID string, date time.Time) (*model.Availability, error) {
	if specialistID == "" {
		return nil, apperrors.InvalidInput("Specialist ID cannot be empty")
	}
	date = date.UTC().Truncate(24 * time.Hour)

	// The lookback matches the maximum allowed course duration, so even the
	// longest course is still detected on its final day.
	lookbackStart := date.AddDate(0, 0, -s.cfg.MaxCourseDurationDays)

	var sameDay, courses []*model.Booking
	var blocks []*model.Slot
	var errSameDay, errCourses, errBlocks error
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		sameDay, errSameDay = s.repo.FindActiveByDate(ctx, specialistID, date)
	}()

	go func() {
		defer wg.Done()
		courses, errCourses = s.repo.FindCoursesInWindow(ctx, specialistID, lookbackStart, date)
	}()

	go func() {
		defer wg.Done()
		blocks, errBlocks = s.slotBlocks.FindBlockedByDate(ctx, specialistID, date)
	}()

	wg.Wait()
	for _, err := range []error{errSameDay, errCourses, errBlocks} {
		if err != nil {
			s.cfg.Log.Error("Failed to resolve availability",
				"specialist_id", specialistID,
				"date", date,
				"error", err,
			)
			return nil, apperrors.Internal("Failed to resolve availability", err)
		}
	}

	busy := make(map[string]struct{})
	for _, b := range sameDay {
		busy[b.SlotTime] = struct{}{}
	}
	for _, b := range courses {
		// A course starting before the target date still blocks its slot on
		// every day strictly before its end date.
		if b.EndDate().After(date) {
			busy[b.SlotTime] = struct{}{}
		}
	}
	for _, slot := range blocks {
		if slot.IsBooked {
			busy[slot.StartTime] = struct{}{}
		}
	}

	busySlots := make([]string, 0, len(busy))
	for label := range busy {
		busySlots = append(busySlots, label)
	}
	sort.Strings(busySlots)

	return &model.Availability{
		SpecialistID: specialistID,
		Date:         date,
		BusySlots:    busySlots,
	}, nil
}
