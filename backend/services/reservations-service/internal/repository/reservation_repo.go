package repository

import (
	"context"
	"database/sql"
	"errors"

	"evcharge/backend/services/reservations-service/internal/models"
)

// ErrReservationNotFound indicates a missing reservation row.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepository handles persistence of reservations.
type ReservationRepository struct {
	db *sql.DB
}

// NewReservationRepository returns repository.
func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// EnsureSchema creates the reservations table and its lookup index. The
// service owns its own schema, so a fresh database is usable immediately.
func (r *ReservationRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reservations (
			id          TEXT PRIMARY KEY,
			session_id  INTEGER NOT NULL,
			plate       TEXT NOT NULL,
			date        TEXT NOT NULL,
			start_time  TEXT NOT NULL,
			end_time    TEXT NOT NULL,
			status      TEXT NOT NULL DEFAULT 'CONFIRMED',
			owner_email TEXT,
			source      TEXT NOT NULL DEFAULT 'seed'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_date_session
			ON reservations (date, session_id)`,
	}
	for _, statement := range statements {
		if _, err := r.db.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts a new reservation.
func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	const query = `
		INSERT INTO reservations (id, session_id, plate, date, start_time, end_time, status, owner_email, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		reservation.ID,
		reservation.SessionID,
		reservation.Plate,
		reservation.Date,
		reservation.StartTime,
		reservation.EndTime,
		reservation.Status,
		reservation.OwnerEmail,
		reservation.Source,
	)
	return err
}

// ListBySessionDate returns the reservations of one session on one date,
// ordered by start time.
func (r *ReservationRepository) ListBySessionDate(ctx context.Context, date string, sessionID int) ([]models.Reservation, error) {
	const query = `
		SELECT id, session_id, plate, date, start_time, end_time, status, COALESCE(owner_email, ''), source
		FROM reservations
		WHERE date = $1 AND session_id = $2
		ORDER BY start_time
	`
	rows, err := r.db.QueryContext(ctx, query, date, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListByOwner returns every reservation booked under the given email,
// ordered by date then start time.
func (r *ReservationRepository) ListByOwner(ctx context.Context, email string) ([]models.Reservation, error) {
	const query = `
		SELECT id, session_id, plate, date, start_time, end_time, status, COALESCE(owner_email, ''), source
		FROM reservations
		WHERE owner_email = $1
		ORDER BY date, start_time
	`
	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ExistingIDs returns the ids already stored for a date, used to keep demo
// seeding idempotent.
func (r *ReservationRepository) ExistingIDs(ctx context.Context, date string) (map[string]struct{}, error) {
	const query = `SELECT id FROM reservations WHERE date = $1`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// Delete removes one reservation scoped to its date and session.
func (r *ReservationRepository) Delete(ctx context.Context, id, date string, sessionID int) error {
	const query = `DELETE FROM reservations WHERE id = $1 AND date = $2 AND session_id = $3`
	result, err := r.db.ExecContext(ctx, query, id, date, sessionID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func scanReservations(rows *sql.Rows) ([]models.Reservation, error) {
	var reservations []models.Reservation
	for rows.Next() {
		var res models.Reservation
		if err := rows.Scan(
			&res.ID,
			&res.SessionID,
			&res.Plate,
			&res.Date,
			&res.StartTime,
			&res.EndTime,
			&res.Status,
			&res.OwnerEmail,
			&res.Source,
		); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}
