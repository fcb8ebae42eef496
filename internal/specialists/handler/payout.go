package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"careslot/internal/specialists/service"
	apperrors "careslot/pkg/errors"
	httputil "careslot/pkg/http"
	"careslot/pkg/logger"
	"careslot/pkg/middleware"
	"careslot/pkg/model"
)

type PayoutHandler struct {
	service     service.PayoutService
	log         *logger.Logger
	authEnabled bool
}

func NewPayoutHandler(service service.PayoutService, log *logger.Logger, authEnabled bool) *PayoutHandler {
	return &PayoutHandler{
		service:     service,
		log:         log,
		authEnabled: authEnabled,
	}
}

func (h *PayoutHandler) GetBankAccount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	account, err := h.service.GetBankAccount(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBankAccount", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, account); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBankAccount", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PayoutHandler) RequestPayout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payout model.PayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&payout); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "RequestPayout", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.RequestPayout(r.Context(), &payout); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RequestPayout", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, payout); err != nil {
		h.log.Error("failed to write created response", "handler", "RequestPayout", "operation", "WriteCreated", "error", err)
	}
}

func (h *PayoutHandler) ListPayouts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListPayouts", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	payouts, total, err := h.service.ListPayouts(r.Context(), query.Get("specialist_id"), query.Get("status"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListPayouts", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, payouts, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListPayouts", "operation", "WritePaginated", "error", err)
	}
}

func (h *PayoutHandler) UpdatePayoutStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var update model.PayoutStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdatePayoutStatus", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdatePayoutStatus(r.Context(), id, &update); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdatePayoutStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

// adminOnly gates a route on the admin role when JWT auth is configured.
// Without a secret the deployment is trusted-network only and the check is
// skipped, matching the Auth middleware toggle.
func (h *PayoutHandler) adminOnly(next httprouter.Handle) httprouter.Handle {
	if !h.authEnabled {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		middleware.RequireRole(middleware.RoleAdmin, h.log, func(w http.ResponseWriter, r *http.Request) {
			next(w, r, ps)
		})(w, r)
	}
}

func (h *PayoutHandler) RegisterRoutes(router *httprouter.Router) {
	router.PUT("/api/v1/specialists/id/:id/bank-account", h.setBankAccountForSpecialist)
	router.GET("/api/v1/specialists/id/:id/bank-account", h.GetBankAccount)
	router.POST("/api/v1/payouts", h.RequestPayout)
	router.GET("/api/v1/payouts", h.adminOnly(h.ListPayouts))
	router.PATCH("/api/v1/payouts/id/:id", h.adminOnly(h.UpdatePayoutStatus))
}

// setBankAccountForSpecialist fills the specialist id from the path so the
// body cannot claim a different owner.
func (h *PayoutHandler) setBankAccountForSpecialist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Specialist ID cannot be empty")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetBankAccount", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var account model.BankAccount
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SetBankAccount", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	account.SpecialistID = id

	if err := h.service.SetBankAccount(r.Context(), &account); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetBankAccount", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, account); err != nil {
		h.log.Error("failed to write success response", "handler", "SetBankAccount", "operation", "WriteSuccess", "error", err)
	}
}
