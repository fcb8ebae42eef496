package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"careslot/internal/specialists/service"
	httputil "careslot/pkg/http"
	"careslot/pkg/logger"
	"careslot/pkg/model"
)

type SpecialistHandler struct {
	service service.SpecialistService
	log     *logger.Logger
}

func NewSpecialistHandler(service service.SpecialistService, log *logger.Logger) *SpecialistHandler {
	return &SpecialistHandler{
		service: service,
		log:     log,
	}
}

func (h *SpecialistHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var specialist model.Specialist
	if err := json.NewDecoder(r.Body).Decode(&specialist); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &specialist); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, specialist); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *SpecialistHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	profile, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SpecialistHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	specialists, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, specialists, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *SpecialistHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	specialists, total, err := h.service.Search(r.Context(), query.Get("city"), query.Get("specialty"), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, specialists, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "operation", "WritePaginated", "error", err)
	}
}

func (h *SpecialistHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.SpecialistUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), id, &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SpecialistHandler) AddClinic(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var clinic model.Clinic
	if err := json.NewDecoder(r.Body).Decode(&clinic); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddClinic", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.AddClinic(r.Context(), &clinic); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddClinic", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, clinic); err != nil {
		h.log.Error("failed to write created response", "handler", "AddClinic", "operation", "WriteCreated", "error", err)
	}
}

func (h *SpecialistHandler) GetClinics(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	clinics, err := h.service.GetClinics(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetClinics", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, clinics); err != nil {
		h.log.Error("failed to write success response", "handler", "GetClinics", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SpecialistHandler) DeleteClinic(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.DeleteClinic(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeleteClinic", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SpecialistHandler) AddReview(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var review model.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddReview", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.AddReview(r.Context(), &review); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddReview", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, review); err != nil {
		h.log.Error("failed to write created response", "handler", "AddReview", "operation", "WriteCreated", "error", err)
	}
}

func (h *SpecialistHandler) GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetReviews", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	reviews, total, err := h.service.GetReviews(r.Context(), id, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetReviews", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, reviews, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetReviews", "operation", "WritePaginated", "error", err)
	}
}

func (h *SpecialistHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/specialists", h.Create)
	router.GET("/api/v1/specialists", h.GetAll)
	router.GET("/api/v1/specialists/search", h.Search)
	router.GET("/api/v1/specialists/id/:id", h.GetByID)
	router.PATCH("/api/v1/specialists/id/:id", h.Update)
	router.POST("/api/v1/clinics", h.AddClinic)
	router.GET("/api/v1/specialists/id/:id/clinics", h.GetClinics)
	router.DELETE("/api/v1/clinics/id/:id", h.DeleteClinic)
	router.POST("/api/v1/reviews", h.AddReview)
	router.GET("/api/v1/specialists/id/:id/reviews", h.GetReviews)
}
