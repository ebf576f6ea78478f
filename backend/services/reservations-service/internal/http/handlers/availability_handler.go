package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"evcharge/backend/services/reservations-service/internal/models"
	"evcharge/backend/services/reservations-service/internal/service"
)

const defaultDurationMin = 60

// NewAvailabilityHandler handles GET /api/user/sessions?date&durationMin.
func NewAvailabilityHandler(reservations *service.ReservationsService) http.HandlerFunc {
	type response struct {
		Sessions []models.SessionSlots `json:"sessions"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			writeError(w, http.StatusBadRequest, "date query parameter is required")
			return
		}

		durationMin := defaultDurationMin
		if raw := r.URL.Query().Get("durationMin"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "durationMin must be an integer")
				return
			}
			durationMin = parsed
		}

		sessions, err := reservations.Availability(r.Context(), date, durationMin)
		if err != nil {
			if errors.Is(err, service.ErrValidation) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to compute availability")
			return
		}

		writeJSON(w, http.StatusOK, response{Sessions: sessions})
	}
}
