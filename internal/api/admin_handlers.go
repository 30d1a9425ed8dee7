package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"costaverde/internal/entities"
	"costaverde/internal/service"
)

type AdminHandler struct {
	Service *service.ReservationService
	Catalog *service.CatalogService
}

func NewAdminHandler(svc *service.ReservationService, catalog *service.CatalogService) *AdminHandler {
	return &AdminHandler{Service: svc, Catalog: catalog}
}

func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	filter := entities.ReservationFilter{
		Status:        r.URL.Query().Get("status"),
		PaymentStatus: r.URL.Query().Get("payment_status"),
		Search:        r.URL.Query().Get("q"),
	}
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			http.Error(w, "Invalid 'from' date", http.StatusBadRequest)
			return
		}
		filter.From = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			http.Error(w, "Invalid 'to' date", http.StatusBadRequest)
			return
		}
		filter.To = t
	}

	list, err := h.Service.ListReservations(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) CreateWalkIn(w http.ResponseWriter, r *http.Request) {
	var req entities.WalkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	res, err := h.Service.CreateWalkIn(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req entities.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	res, err := h.Service.SetStatus(r.Context(), code, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AdminHandler) SetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req entities.PaymentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	res, err := h.Service.SetPaymentStatus(r.Context(), code, req.PaymentStatus, req.DepositReturned)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AdminHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req entities.ResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	res, err := h.Catalog.CreateResource(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *AdminHandler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req entities.ResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	res, err := h.Catalog.UpdateResource(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AdminHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteResource(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Resource deleted"})
}

func (h *AdminHandler) SetResourceAvailability(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req entities.AvailabilityToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Catalog.SetAvailability(r.Context(), id, req.IsAvailable); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Resource availability updated"})
}
