package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	specialistserrors "careslot/internal/specialists/errors"
	"careslot/internal/specialists/repository"
	"careslot/internal/specialists/validator"
	"careslot/pkg/config"
	apperrors "careslot/pkg/errors"
	"careslot/pkg/model"
	"careslot/pkg/sanitizer"
)

type PayoutService interface {
	SetBankAccount(ctx context.Context, account *model.BankAccount) error
	GetBankAccount(ctx context.Context, specialistID string) (*model.BankAccount, error)
	RequestPayout(ctx context.Context, payout *model.PayoutRequest) error
	ListPayouts(ctx context.Context, specialistID string, status string, limit int, offset int64) ([]*model.PayoutRequest, int64, error)
	UpdatePayoutStatus(ctx context.Context, id string, update *model.PayoutStatusUpdate) error
}

type payoutService struct {
	repo      repository.PayoutRepository
	validator *validator.SpecialistValidator
	cfg       *config.Config
}

func NewPayoutService(repo repository.PayoutRepository, validator *validator.SpecialistValidator, cfg *config.Config) PayoutService {
	return &payoutService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *payoutService) SetBankAccount(ctx context.Context, account *model.BankAccount) error {
	account.HolderName = sanitizer.NormalizeName(account.HolderName)
	account.AccountNumber = sanitizer.TrimAndNormalize(account.AccountNumber)
	account.BankCode = sanitizer.TrimAndNormalize(account.BankCode)

	if err := s.validator.ValidateBankAccount(account); err != nil {
		s.cfg.Log.Warn("Bank account validation failed", "error", err)
		return apperrors.Validation("Bank account validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.UpsertBankAccount(ctx, account); err != nil {
		s.cfg.Log.Error("Failed to save bank account", "error", err)
		return apperrors.Internal("Failed to save bank account", err)
	}

	s.cfg.Log.Info("Bank account saved", "specialist_id", account.SpecialistID)
	return nil
}

func (s *payoutService) GetBankAccount(ctx context.Context, specialistID string) (*model.BankAccount, error) {
	if specialistID == "" {
		return nil, apperrors.InvalidInput("Specialist ID cannot be empty")
	}

	account, err := s.repo.FindBankAccount(ctx, specialistID)
	if err != nil {
		if errors.Is(err, specialistserrors.ErrBankAccountNotFound) {
			return nil, apperrors.NotFound("Bank account")
		}
		return nil, apperrors.Internal("Failed to retrieve bank account", err)
	}
	return account, nil
}

// RequestPayout creates a PENDING payout request. A bank account must exist
// first; the generated reference identifies the payout in bank exports.
func (s *payoutService) RequestPayout(ctx context.Context, payout *model.PayoutRequest) error {
	payout.Status = model.PayoutStatusPending
	payout.Reference = uuid.New().String()

	if err := s.validator.ValidatePayout(payout); err != nil {
		s.cfg.Log.Warn("Payout validation failed", "error", err)
		return apperrors.Validation("Payout validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.FindBankAccount(ctx, payout.SpecialistID); err != nil {
		if errors.Is(err, specialistserrors.ErrBankAccountNotFound) {
			return apperrors.Conflict("A bank account is required before requesting a payout")
		}
		return apperrors.Internal("Failed to check bank account", err)
	}

	if err := s.repo.CreatePayout(ctx, payout); err != nil {
		s.cfg.Log.Error("Failed to create payout request", "error", err)
		return apperrors.Internal("Failed to create payout request", err)
	}

	s.cfg.Log.Info("Payout requested",
		"id", payout.ID,
		"specialist_id", payout.SpecialistID,
		"amount", payout.Amount,
		"reference", payout.Reference,
	)
	return nil
}

func (s *payoutService) ListPayouts(ctx context.Context, specialistID string, status string, limit int, offset int64) ([]*model.PayoutRequest, int64, error) {
	var count int64
	var payoutRequests []*model.PayoutRequest
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountPayouts(ctx, specialistID, status)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count payout requests", "error", errCount)
			errCount = apperrors.Internal("Failed to count payout requests", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		payoutRequests, errFind = s.repo.FindPayouts(ctx, specialistID, status, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list payout requests", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve payout requests", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return payoutRequests, count, nil
}

// UpdatePayoutStatus enforces the admin workflow: PENDING may become
// APPROVED or REJECTED, and only APPROVED may become PAID.
func (s *payoutService) UpdatePayoutStatus(ctx context.Context, id string, update *model.PayoutStatusUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Payout ID cannot be empty")
	}
	if err := s.validator.ValidatePayoutStatusUpdate(update); err != nil {
		s.cfg.Log.Warn("Payout status update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid payout status update", map[string]any{"error": err.Error()})
	}

	payout, err := s.repo.FindPayoutByID(ctx, id)
	if err != nil {
		if errors.Is(err, specialistserrors.ErrPayoutNotFound) {
			return apperrors.NotFoundWithID("Payout request", id)
		}
		if errors.Is(err, specialistserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid payout ID format")
		}
		return apperrors.Internal("Failed to retrieve payout request", err)
	}

	if !payoutTransitionAllowed(payout.Status, update.Status) {
		return apperrors.Conflict(fmt.Sprintf(
			"Payout request is %s and cannot become %s", payout.Status, update.Status,
		))
	}

	if err := s.repo.SetPayoutStatus(ctx, id, update.Status); err != nil {
		s.cfg.Log.Error("Failed to update payout status", "id", id, "error", err)
		return apperrors.Internal("Failed to update payout status", err)
	}

	s.cfg.Log.Info("Payout status updated", "id", id, "status", update.Status)
	return nil
}

func payoutTransitionAllowed(from, to string) bool {
	switch from {
	case model.PayoutStatusPending:
		return to == model.PayoutStatusApproved || to == model.PayoutStatusRejected
	case model.PayoutStatusApproved:
		return to == model.PayoutStatusPaid
	}
	return false
}
