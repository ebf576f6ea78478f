package handlers

import (
	"encoding/json"
	"net/http"

	"evcharge/backend/services/reservations-service/internal/service"
)

// NewVerifyPlateHandler handles POST /api/user/verify-plate.
func NewVerifyPlateHandler(reservations *service.ReservationsService) http.HandlerFunc {
	type request struct {
		Plate string `json:"plate"`
	}
	type response struct {
		Registered bool `json:"registered"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		writeJSON(w, http.StatusOK, response{
			Registered: reservations.VerifyPlate(req.Plate),
		})
	}
}
