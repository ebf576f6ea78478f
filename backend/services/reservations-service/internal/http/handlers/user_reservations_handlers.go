package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"evcharge/backend/services/reservations-service/internal/auth"
	"evcharge/backend/services/reservations-service/internal/models"
	"evcharge/backend/services/reservations-service/internal/service"
)

// NewUserReservationsListHandler handles GET /api/user/reservations. The
// owner comes from the authenticated identity, not from the query string.
func NewUserReservationsListHandler(reservations *service.ReservationsService) http.HandlerFunc {
	type response struct {
		Reservations []models.Reservation `json:"reservations"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing identity")
			return
		}

		records, err := reservations.UserReservations(r.Context(), identity.Email)
		if err != nil {
			if errors.Is(err, service.ErrValidation) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to fetch reservations")
			return
		}

		writeJSON(w, http.StatusOK, response{Reservations: records})
	}
}

// NewUserReservationCreateHandler handles POST /api/user/reservations.
func NewUserReservationCreateHandler(reservations *service.ReservationsService) http.HandlerFunc {
	type request struct {
		SessionID   int    `json:"sessionId"`
		Date        string `json:"date"`
		StartTime   string `json:"startTime"`
		DurationMin int    `json:"durationMin"`
		Plate       string `json:"plate"`
	}
	type response struct {
		ReservationID string `json:"reservationId"`
		Status        string `json:"status"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing identity")
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		created, err := reservations.CreateReservation(r.Context(), service.CreateReservationInput{
			SessionID:   req.SessionID,
			Date:        req.Date,
			StartTime:   req.StartTime,
			DurationMin: req.DurationMin,
			Plate:       req.Plate,
			OwnerEmail:  identity.Email,
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

		writeJSON(w, http.StatusOK, response{
			ReservationID: created.ID,
			Status:        created.Status,
		})
	}
}
