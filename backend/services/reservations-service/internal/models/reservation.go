package models

// Reservation lifecycle states.
const (
	StatusConfirmed  = "CONFIRMED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// Reservation origins.
const (
	SourceSeed  = "seed"
	SourceUser  = "user"
	SourceAdmin = "admin"
)

// ValidStatus reports whether s belongs to the reservation status domain.
func ValidStatus(s string) bool {
	switch s {
	case StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Reservation is one booked interval on a charging session. Date is
// YYYY-MM-DD, StartTime/EndTime are HH:MM within that date.
type Reservation struct {
	ID         string `json:"id"`
	SessionID  int    `json:"sessionId"`
	Plate      string `json:"plate"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Status     string `json:"status"`
	OwnerEmail string `json:"ownerEmail,omitempty"`
	Source     string `json:"-"`
}

// SessionSlots is the availability answer for one charging session.
type SessionSlots struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Slots []string `json:"slots"`
}

// SessionReservations is the admin overview row for one charging session.
type SessionReservations struct {
	SessionID    int           `json:"sessionId"`
	Name         string        `json:"name"`
	Reservations []Reservation `json:"reservations"`
}
