package service

import (
	"context"
	"errors"
	"sync"

	specialistserrors "careslot/internal/specialists/errors"
	"careslot/internal/specialists/repository"
	"careslot/internal/specialists/validator"
	"careslot/pkg/config"
	apperrors "careslot/pkg/errors"
	"careslot/pkg/model"
	"careslot/pkg/sanitizer"
)

// SpecialistProfile is a specialist together with its aggregated review
// rating, returned by profile reads.
type SpecialistProfile struct {
	*model.Specialist
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

type SpecialistService interface {
	Create(ctx context.Context, specialist *model.Specialist) error
	GetByID(ctx context.Context, id string) (*SpecialistProfile, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Specialist, int64, error)
	Search(ctx context.Context, city string, specialty string, limit int, offset int64) ([]*model.Specialist, int64, error)
	Update(ctx context.Context, id string, updates *model.SpecialistUpdate) error
	AddClinic(ctx context.Context, clinic *model.Clinic) error
	GetClinics(ctx context.Context, specialistID string) ([]*model.Clinic, error)
	DeleteClinic(ctx context.Context, id string) error
	AddReview(ctx context.Context, review *model.Review) error
	GetReviews(ctx context.Context, specialistID string, limit int, offset int64) ([]*model.Review, int64, error)
}

type specialistService struct {
	repo      repository.SpecialistRepository
	clinics   repository.ClinicRepository
	reviews   repository.ReviewRepository
	validator *validator.SpecialistValidator
	cfg       *config.Config
}

func NewSpecialistService(
	repo repository.SpecialistRepository,
	clinics repository.ClinicRepository,
	reviews repository.ReviewRepository,
	validator *validator.SpecialistValidator,
	cfg *config.Config,
) SpecialistService {
	return &specialistService{
		repo:      repo,
		clinics:   clinics,
		reviews:   reviews,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *specialistService) Create(ctx context.Context, specialist *model.Specialist) error {
	s.sanitize(specialist)
	if err := s.validator.Validate(specialist); err != nil {
		s.cfg.Log.Warn("Specialist validation failed", "error", err)
		return apperrors.Validation("Specialist validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, specialist); err != nil {
		s.cfg.Log.Error("Failed to create specialist", "error", err)
		return apperrors.Internal("Failed to create specialist", err)
	}

	s.cfg.Log.Info("Specialist created successfully", "id", specialist.ID, "name", specialist.Name)
	return nil
}

func (s *specialistService) GetByID(ctx context.Context, id string) (*SpecialistProfile, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Specialist ID cannot be empty")
	}

	specialist, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, specialistserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Specialist", id)
		}
		if errors.Is(err, specialistserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid specialist ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve specialist", err)
	}

	var rating float64
	var reviewCount int64
	var errRating, errCount error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		rating, errRating = s.reviews.AverageRating(ctx, id)
	}()

	go func() {
		defer wg.Done()
		reviewCount, errCount = s.reviews.CountBySpecialist(ctx, id)
	}()

	wg.Wait()
	if errRating != nil || errCount != nil {
		// Profile reads should not fail on rating aggregation problems.
		s.cfg.Log.Warn("Failed to aggregate reviews", "specialist_id", id,
			"rating_error", errRating, "count_error", errCount)
		rating, reviewCount = 0, 0
	}

	return &SpecialistProfile{
		Specialist:    specialist,
		AverageRating: rating,
		ReviewCount:   reviewCount,
	}, nil
}

func (s *specialistService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Specialist, int64, error) {
	var count int64
	var specialists []*model.Specialist
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count specialists", "error", errCount)
			errCount = apperrors.Internal("Failed to count specialists", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		specialists, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list specialists", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve specialists", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return specialists, count, nil
}

func (s *specialistService) Search(ctx context.Context, city string, specialty string, limit int, offset int64) ([]*model.Specialist, int64, error) {
	city = sanitizer.NormalizeCity(city)
	specialty = sanitizer.TrimAndNormalize(specialty)

	var count int64
	var specialists []*model.Specialist
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountSearch(ctx, city, specialty)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count specialists by search", "error", errCount)
			errCount = apperrors.Internal("Failed to count specialists", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		specialists, errFind = s.repo.Search(ctx, city, specialty, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to search specialists", "error", errFind)
			errFind = apperrors.Internal("Failed to search specialists", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return specialists, count, nil
}

func (s *specialistService) Update(ctx context.Context, id string, updates *model.SpecialistUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Specialist ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Specialist update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, specialistserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Specialist", id)
		}
		if errors.Is(err, specialistserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid specialist ID format")
		}
		return apperrors.Internal("Failed to check specialist existence", err)
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Specialist validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update specialist", "id", id, "error", err)
		return apperrors.Internal("Failed to update specialist", err)
	}

	s.cfg.Log.Info("Specialist updated successfully", "id", id)
	return nil
}

func (s *specialistService) AddClinic(ctx context.Context, clinic *model.Clinic) error {
	clinic.Name = sanitizer.NormalizeName(clinic.Name)
	clinic.City = sanitizer.NormalizeCity(clinic.City)
	clinic.Address = sanitizer.TrimAndNormalize(clinic.Address)

	if err := s.validator.ValidateClinic(clinic); err != nil {
		s.cfg.Log.Warn("Clinic validation failed", "error", err)
		return apperrors.Validation("Clinic validation failed", map[string]any{"error": err.Error()})
	}
	if _, err := s.GetByID(ctx, clinic.SpecialistID); err != nil {
		return err
	}

	if err := s.clinics.Create(ctx, clinic); err != nil {
		s.cfg.Log.Error("Failed to create clinic", "error", err)
		return apperrors.Internal("Failed to create clinic", err)
	}

	s.cfg.Log.Info("Clinic created successfully", "id", clinic.ID, "specialist_id", clinic.SpecialistID)
	return nil
}

func (s *specialistService) GetClinics(ctx context.Context, specialistID string) ([]*model.Clinic, error) {
	if specialistID == "" {
		return nil, apperrors.InvalidInput("Specialist ID cannot be empty")
	}

	clinics, err := s.clinics.FindBySpecialist(ctx, specialistID)
	if err != nil {
		s.cfg.Log.Error("Failed to retrieve clinics", "specialist_id", specialistID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve clinics", err)
	}
	return clinics, nil
}

func (s *specialistService) DeleteClinic(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Clinic ID cannot be empty")
	}

	if err := s.clinics.Delete(ctx, id); err != nil {
		if errors.Is(err, specialistserrors.ErrClinicNotFound) {
			return apperrors.NotFoundWithID("Clinic", id)
		}
		if errors.Is(err, specialistserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid clinic ID format")
		}
		s.cfg.Log.Error("Failed to delete clinic", "id", id, "error", err)
		return apperrors.Internal("Failed to delete clinic", err)
	}

	s.cfg.Log.Info("Clinic deleted successfully", "id", id)
	return nil
}

func (s *specialistService) AddReview(ctx context.Context, review *model.Review) error {
	review.Comment = sanitizer.TrimAndNormalize(review.Comment)

	if err := s.validator.ValidateReview(review); err != nil {
		s.cfg.Log.Warn("Review validation failed", "error", err)
		return apperrors.Validation("Review validation failed", map[string]any{"error": err.Error()})
	}
	if _, err := s.GetByID(ctx, review.SpecialistID); err != nil {
		return err
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		s.cfg.Log.Error("Failed to create review", "error", err)
		return apperrors.Internal("Failed to create review", err)
	}

	s.cfg.Log.Info("Review created successfully", "id", review.ID, "specialist_id", review.SpecialistID)
	return nil
}

func (s *specialistService) GetReviews(ctx context.Context, specialistID string, limit int, offset int64) ([]*model.Review, int64, error) {
	if specialistID == "" {
		return nil, 0, apperrors.InvalidInput("Specialist ID cannot be empty")
	}

	var count int64
	var reviews []*model.Review
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.reviews.CountBySpecialist(ctx, specialistID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reviews", "error", errCount)
			errCount = apperrors.Internal("Failed to count reviews", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reviews, errFind = s.reviews.FindBySpecialist(ctx, specialistID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reviews", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reviews", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reviews, count, nil
}

// --- Helpers ---

func (s *specialistService) sanitize(sp *model.Specialist) {
	sp.Name = sanitizer.NormalizeName(sp.Name)
	sp.Specialty = sanitizer.TrimAndNormalize(sp.Specialty)
	sp.City = sanitizer.NormalizeCity(sp.City)
	sp.Bio = sanitizer.TrimAndNormalize(sp.Bio)
}

func (s *specialistService) mergeUpdates(existing *model.Specialist, updates *model.SpecialistUpdate) *model.Specialist {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Specialty != "" {
		merged.Specialty = updates.Specialty
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}
	if updates.Bio != "" {
		merged.Bio = updates.Bio
	}
	if updates.City != "" {
		merged.City = updates.City
	}
	if updates.ClinicPrice != nil {
		merged.ClinicPrice = *updates.ClinicPrice
	}
	if updates.HomePrice != nil {
		merged.HomePrice = *updates.HomePrice
	}
	if updates.VideoPrice != nil {
		merged.VideoPrice = *updates.VideoPrice
	}

	return &merged
}
