package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"evcharge/backend/services/reservations-service/internal/models"
	"evcharge/backend/services/reservations-service/internal/repository"
	"evcharge/backend/services/reservations-service/internal/service"
)

// NewAdminSessionsHandler handles GET /api/admin/sessions?date.
func NewAdminSessionsHandler(reservations *service.ReservationsService) http.HandlerFunc {
	type response struct {
		Sessions []models.SessionReservations `json:"sessions"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			writeError(w, http.StatusBadRequest, "date query parameter is required")
			return
		}

		overview, err := reservations.SessionsOverview(r.Context(), date)
		if err != nil {
			if errors.Is(err, service.ErrValidation) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to list reservations")
			return
		}

		writeJSON(w, http.StatusOK, response{Sessions: overview})
	}
}

// NewAdminReservationCreateHandler handles POST /api/admin/reservations.
func NewAdminReservationCreateHandler(reservations *service.ReservationsService) http.HandlerFunc {
	type request struct {
		SessionID   int    `json:"sessionId"`
		Date        string `json:"date"`
		StartTime   string `json:"startTime"`
		DurationMin int    `json:"durationMin"`
		Plate       string `json:"plate"`
		Status      string `json:"status"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		created, err := reservations.AdminCreateReservation(r.Context(), service.AdminCreateInput{
			SessionID:   req.SessionID,
			Date:        req.Date,
			StartTime:   req.StartTime,
			DurationMin: req.DurationMin,
			Plate:       req.Plate,
			Status:      req.Status,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrValidation):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, service.ErrSlotTaken):
				writeError(w, http.StatusConflict, "the slot is already reserved")
			default:
				writeError(w, http.StatusInternalServerError, "failed to create reservation")
			}
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

// NewAdminReservationDeleteHandler handles
// DELETE /api/admin/reservations/{id}?date&sessionId.
func NewAdminReservationDeleteHandler(reservations *service.ReservationsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/admin/reservations/")
		if id == "" || strings.Contains(id, "/") {
			writeError(w, http.StatusBadRequest, "reservation id is required")
			return
		}

		date := r.URL.Query().Get("date")
		if date == "" {
			writeError(w, http.StatusBadRequest, "date query parameter is required")
			return
		}
		sessionID, err := strconv.Atoi(r.URL.Query().Get("sessionId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "sessionId must be an integer")
			return
		}

		if err := reservations.DeleteReservation(r.Context(), id, date, sessionID); err != nil {
			switch {
			case errors.Is(err, service.ErrValidation):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, repository.ErrReservationNotFound):
				writeError(w, http.StatusNotFound, "reservation not found")
			default:
				writeError(w, http.StatusInternalServerError, "failed to delete reservation")
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
