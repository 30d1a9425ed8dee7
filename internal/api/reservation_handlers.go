package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"costaverde/internal/entities"
	apperrors "costaverde/internal/errors"
	"costaverde/internal/service"
)

type ReservationHandler struct {
	Service *service.ReservationService
	Catalog *service.CatalogService
}

func NewReservationHandler(svc *service.ReservationService, catalog *service.CatalogService) *ReservationHandler {
	return &ReservationHandler{Service: svc, Catalog: catalog}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	httpErr := apperrors.FromDomain(err)
	writeJSON(w, httpErr.Code, map[string]string{"error": httpErr.Message})
}

func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResourceID string    `json:"resource_id"`
		StartTime  time.Time `json:"start_time"`
		EndTime    time.Time `json:"end_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	resp, err := h.Service.CheckAvailability(r.Context(), req.ResourceID, req.StartTime, req.EndTime)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req entities.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	res, err := h.Service.CreateReservation(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	email := r.URL.Query().Get("email")
	res, err := h.Service.GetReservation(r.Context(), code, email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	res, err := h.Service.CancelReservation(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) ListBusyDates(w http.ResponseWriter, r *http.Request) {
	resourceID := mux.Vars(r)["id"]
	days, err := h.Service.ListBusyDates(r.Context(), resourceID)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := entities.BusyDatesResponse{ResourceID: resourceID, BusyDates: make([]string, 0, len(days))}
	for _, d := range days {
		resp.BusyDates = append(resp.BusyDates, d.Format("2006-01-02"))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ReservationHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.Catalog.ListResources(r.Context(), r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resources)
}

func (h *ReservationHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	res, err := h.Catalog.GetResource(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
