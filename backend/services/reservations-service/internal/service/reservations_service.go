package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"evcharge/backend/services/reservations-service/internal/models"
	"evcharge/backend/services/reservations-service/internal/schedule"
	"evcharge/backend/services/reservations-service/internal/seed"
	"evcharge/backend/services/reservations-service/internal/slot"
)

var (
	// ErrValidation marks malformed or out-of-domain input; the caller can
	// recover by adjusting the request.
	ErrValidation = errors.New("invalid request")
	// ErrSlotTaken is returned when the requested interval overlaps an
	// existing reservation on the same session and date.
	ErrSlotTaken = errors.New("slot already reserved")
)

const (
	minDurationMin = 30
	maxDurationMin = 180

	adminPlateNote = "ADMIN BLOCK"
	dateLayout     = "2006-01-02"
)

// ReservationRepository is the storage contract used by the service.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	ListBySessionDate(ctx context.Context, date string, sessionID int) ([]models.Reservation, error)
	ListByOwner(ctx context.Context, email string) ([]models.Reservation, error)
	ExistingIDs(ctx context.Context, date string) (map[string]struct{}, error)
	Delete(ctx context.Context, id, date string, sessionID int) error
}

// SlotCache caches computed availability answers. Optional: the service runs
// without one, and cache failures only degrade to recomputation.
type SlotCache interface {
	Get(ctx context.Context, date string, durationMin int) ([]models.SessionSlots, error)
	Set(ctx context.Context, date string, durationMin int, sessions []models.SessionSlots) error
	Invalidate(ctx context.Context, date string) error
}

// Clock abstracts time for the display-status derivation.
type Clock interface {
	Now() time.Time
}

// RealClock uses the system time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// ReservationsService owns the availability query path and the admission
// boundary. Admissions for one (sessionId, date) are serialized through a
// keyed mutex held across the read-check-insert sequence, so two racing
// bookings can never both pass the conflict check.
type ReservationsService struct {
	repo         ReservationRepository
	cache        SlotCache
	clock        Clock
	logger       *zap.Logger
	window       schedule.Window
	granularity  int
	sessionCount int
	seedDemo     bool

	admitMu sync.Mutex
	admits  map[string]*admitLock

	// seedMu serializes fixture insertion so concurrent first requests for a
	// date cannot both pass the existing-ids check. seeded memoizes completed
	// dates; it grows one small entry per distinct date queried.
	seedMu sync.Mutex
	seeded map[string]struct{}
}

// admitLock is a keyed mutex entry. refs counts holders and waiters so the
// entry can be dropped from the map once the last one releases it.
type admitLock struct {
	mu   sync.Mutex
	refs int
}

// Params configures the service.
type Params struct {
	Window       schedule.Window
	Granularity  int
	SessionCount int
	// SeedDemoData populates every queried date with deterministic demo
	// reservations, mirroring the pilot deployment.
	SeedDemoData bool
}

// NewReservationsService builds the service. Cache may be nil.
func NewReservationsService(repo ReservationRepository, cache SlotCache, clock Clock, logger *zap.Logger, params Params) *ReservationsService {
	if params.Granularity <= 0 {
		params.Granularity = schedule.DefaultGranularity
	}
	if params.SessionCount <= 0 {
		params.SessionCount = 4
	}
	if params.Window.Close <= params.Window.Open {
		params.Window = schedule.DefaultWindow
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &ReservationsService{
		repo:         repo,
		cache:        cache,
		clock:        clock,
		logger:       logger,
		window:       params.Window,
		granularity:  params.Granularity,
		sessionCount: params.SessionCount,
		seedDemo:     params.SeedDemoData,
		admits:       make(map[string]*admitLock),
		seeded:       make(map[string]struct{}),
	}
}

// CreateReservationInput is a user booking request.
type CreateReservationInput struct {
	SessionID   int
	Date        string
	StartTime   string
	DurationMin int
	Plate       string
	OwnerEmail  string
}

// AdminCreateInput is an administrator block request.
type AdminCreateInput struct {
	SessionID   int
	Date        string
	StartTime   string
	DurationMin int
	Plate       string
	Status      string
}

// Availability returns, for every charging session, the start times at which
// a reservation of durationMin can begin on the date. Answers may be served
// from the cache; a momentarily stale list is fine because admission
// re-validates against the store.
func (s *ReservationsService) Availability(ctx context.Context, date string, durationMin int) ([]models.SessionSlots, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if !slot.ValidDuration(durationMin, s.granularity) {
		return nil, validationf("durationMin must be a positive multiple of %d", s.granularity)
	}
	if durationMin < minDurationMin || durationMin > maxDurationMin {
		return nil, validationf("durationMin must be between %d and %d", minDurationMin, maxDurationMin)
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, date, durationMin); err == nil {
			return cached, nil
		}
	}

	if err := s.ensureSeeded(ctx, date); err != nil {
		return nil, err
	}

	sessions := make([]models.SessionSlots, 0, s.sessionCount)
	for sid := 1; sid <= s.sessionCount; sid++ {
		occupied, err := s.occupiedIntervals(ctx, date, sid)
		if err != nil {
			return nil, err
		}
		starts := slot.Candidates(occupied, durationMin, s.window, s.granularity)
		slots := make([]string, 0, len(starts))
		for _, start := range starts {
			slots = append(slots, schedule.FormatClock(start))
		}
		sessions = append(sessions, models.SessionSlots{
			ID:    sid,
			Name:  fmt.Sprintf("Session %d", sid),
			Slots: slots,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, date, durationMin, sessions); err != nil {
			s.logger.Warn("failed to cache availability", zap.String("date", date), zap.Error(err))
		}
	}

	return sessions, nil
}

// CreateReservation books a slot for a user. The start time must sit on the
// availability grid and the whole interval must fit the operating window.
func (s *ReservationsService) CreateReservation(ctx context.Context, input CreateReservationInput) (*models.Reservation, error) {
	if err := s.validateSession(input.SessionID); err != nil {
		return nil, err
	}
	if err := validateDate(input.Date); err != nil {
		return nil, err
	}
	if !slot.ValidDuration(input.DurationMin, s.granularity) {
		return nil, validationf("durationMin must be a positive multiple of %d", s.granularity)
	}

	start, err := s.window.ParseClock(input.StartTime, s.granularity)
	if err != nil {
		return nil, validationf("unsupported start time %q", input.StartTime)
	}
	end := start + input.DurationMin
	if end > s.window.Close {
		return nil, validationf("reservation must end by %s", schedule.FormatClock(s.window.Close))
	}

	reservation := &models.Reservation{
		ID:         reservationID("RSV", input.SessionID),
		SessionID:  input.SessionID,
		Plate:      strings.TrimSpace(input.Plate),
		Date:       input.Date,
		StartTime:  schedule.FormatClock(start),
		EndTime:    schedule.FormatClock(end),
		Status:     models.StatusConfirmed,
		OwnerEmail: strings.TrimSpace(input.OwnerEmail),
		Source:     models.SourceUser,
	}

	if err := s.admit(ctx, reservation, slot.Interval{Start: start, End: end}); err != nil {
		return nil, err
	}
	return reservation, nil
}

// AdminCreateReservation records a manual block. Blocks pass the same
// conflict check as user bookings but may carry any lifecycle status.
func (s *ReservationsService) AdminCreateReservation(ctx context.Context, input AdminCreateInput) (*models.Reservation, error) {
	if err := s.validateSession(input.SessionID); err != nil {
		return nil, err
	}
	if err := validateDate(input.Date); err != nil {
		return nil, err
	}
	if !slot.ValidDuration(input.DurationMin, s.granularity) {
		return nil, validationf("durationMin must be a positive multiple of %d", s.granularity)
	}

	start, err := s.window.ParseClock(input.StartTime, s.granularity)
	if err != nil {
		return nil, validationf("unsupported start time %q", input.StartTime)
	}
	end := start + input.DurationMin
	if end > s.window.Close {
		return nil, validationf("reservation must end by %s", schedule.FormatClock(s.window.Close))
	}

	status := input.Status
	if status == "" {
		status = models.StatusConfirmed
	}
	if !models.ValidStatus(status) {
		return nil, validationf("unknown status %q", input.Status)
	}

	plate := strings.TrimSpace(input.Plate)
	if plate == "" {
		plate = adminPlateNote
	}

	reservation := &models.Reservation{
		ID:        reservationID("ADM", input.SessionID),
		SessionID: input.SessionID,
		Plate:     plate,
		Date:      input.Date,
		StartTime: schedule.FormatClock(start),
		EndTime:   schedule.FormatClock(end),
		Status:    status,
		Source:    models.SourceAdmin,
	}

	if err := s.admit(ctx, reservation, slot.Interval{Start: start, End: end}); err != nil {
		return nil, err
	}
	return reservation, nil
}

// SessionsOverview returns every session's reservations for a date, ordered
// by start time, with display statuses derived from the clock.
func (s *ReservationsService) SessionsOverview(ctx context.Context, date string) ([]models.SessionReservations, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if err := s.ensureSeeded(ctx, date); err != nil {
		return nil, err
	}

	overview := make([]models.SessionReservations, 0, s.sessionCount)
	for sid := 1; sid <= s.sessionCount; sid++ {
		records, err := s.repo.ListBySessionDate(ctx, date, sid)
		if err != nil {
			return nil, err
		}
		for i := range records {
			records[i].Status = s.displayStatus(records[i])
		}
		if records == nil {
			records = []models.Reservation{}
		}
		overview = append(overview, models.SessionReservations{
			SessionID:    sid,
			Name:         fmt.Sprintf("Session %d", sid),
			Reservations: records,
		})
	}
	return overview, nil
}

// UserReservations lists the reservations owned by an email, ordered by date
// and start time.
func (s *ReservationsService) UserReservations(ctx context.Context, email string) ([]models.Reservation, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, validationf("email is required")
	}

	records, err := s.repo.ListByOwner(ctx, email)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Status = s.displayStatus(records[i])
	}
	if records == nil {
		records = []models.Reservation{}
	}
	return records, nil
}

// DeleteReservation removes a reservation unconditionally.
func (s *ReservationsService) DeleteReservation(ctx context.Context, id, date string, sessionID int) error {
	if err := s.validateSession(sessionID); err != nil {
		return err
	}
	if err := validateDate(date); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, date, sessionID); err != nil {
		return err
	}

	s.invalidate(ctx, date)
	s.logger.Info("reservation deleted",
		zap.String("reservation_id", id),
		zap.String("date", date),
		zap.Int("session_id", sessionID))
	return nil
}

// VerifyPlate reports whether a vehicle plate belongs to a registered
// wireless-charging vehicle. Demo rule carried over from the pilot: the last
// digit of the plate number must be even.
func (s *ReservationsService) VerifyPlate(plate string) bool {
	var digits []rune
	for _, r := range plate {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) == 0 {
		return false
	}
	last := int(digits[len(digits)-1] - '0')
	return last%2 == 0
}

// admit runs the read-check-insert sequence under the (sessionId, date) lock.
func (s *ReservationsService) admit(ctx context.Context, reservation *models.Reservation, requested slot.Interval) error {
	if err := s.ensureSeeded(ctx, reservation.Date); err != nil {
		return err
	}

	key := fmt.Sprintf("%d@%s", reservation.SessionID, reservation.Date)
	s.acquireAdmit(key)
	defer s.releaseAdmit(key)

	occupied, err := s.occupiedIntervals(ctx, reservation.Date, reservation.SessionID)
	if err != nil {
		return err
	}
	if slot.Conflicts(occupied, requested) {
		return ErrSlotTaken
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		return err
	}

	s.invalidate(ctx, reservation.Date)
	s.logger.Info("reservation created",
		zap.String("reservation_id", reservation.ID),
		zap.Int("session_id", reservation.SessionID),
		zap.String("date", reservation.Date),
		zap.String("start", reservation.StartTime),
		zap.String("end", reservation.EndTime),
		zap.String("source", reservation.Source))
	return nil
}

func (s *ReservationsService) acquireAdmit(key string) {
	s.admitMu.Lock()
	lock, ok := s.admits[key]
	if !ok {
		lock = &admitLock{}
		s.admits[key] = lock
	}
	lock.refs++
	s.admitMu.Unlock()

	lock.mu.Lock()
}

func (s *ReservationsService) releaseAdmit(key string) {
	s.admitMu.Lock()
	lock := s.admits[key]
	lock.refs--
	if lock.refs == 0 {
		delete(s.admits, key)
	}
	s.admitMu.Unlock()

	lock.mu.Unlock()
}

// occupiedIntervals loads the non-cancelled reservations of a session into
// interval form for the slot engine.
func (s *ReservationsService) occupiedIntervals(ctx context.Context, date string, sessionID int) ([]slot.Interval, error) {
	records, err := s.repo.ListBySessionDate(ctx, date, sessionID)
	if err != nil {
		return nil, err
	}

	intervals := make([]slot.Interval, 0, len(records))
	for _, record := range records {
		if record.Status == models.StatusCancelled {
			continue
		}
		start, err := s.window.ParseClock(record.StartTime, s.granularity)
		if err != nil {
			return nil, fmt.Errorf("stored reservation %s: %w", record.ID, err)
		}
		end, err := s.window.ParseClock(record.EndTime, s.granularity)
		if err != nil {
			return nil, fmt.Errorf("stored reservation %s: %w", record.ID, err)
		}
		intervals = append(intervals, slot.Interval{Start: start, End: end})
	}
	return intervals, nil
}

// ensureSeeded inserts the deterministic demo fixtures for a date once.
// Runs under seedMu: fixture ids are stable per date, so two unserialized
// callers would race the existing-ids check and collide on the primary key.
func (s *ReservationsService) ensureSeeded(ctx context.Context, date string) error {
	if !s.seedDemo {
		return nil
	}

	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	if _, done := s.seeded[date]; done {
		return nil
	}

	existing, err := s.repo.ExistingIDs(ctx, date)
	if err != nil {
		return err
	}

	for sid := 1; sid <= s.sessionCount; sid++ {
		for _, fixture := range seed.Reservations(date, sid, s.window, s.granularity) {
			if _, ok := existing[fixture.ID]; ok {
				continue
			}
			record := fixture
			if err := s.repo.Create(ctx, &record); err != nil {
				return err
			}
			existing[fixture.ID] = struct{}{}
		}
	}
	s.seeded[date] = struct{}{}
	return nil
}

// displayStatus overlays the time-derived state for today's reservations.
func (s *ReservationsService) displayStatus(record models.Reservation) string {
	now := s.clock.Now()
	if now.Format(dateLayout) != record.Date {
		return record.Status
	}

	start, err := s.window.ParseClock(record.StartTime, s.granularity)
	if err != nil {
		return record.Status
	}
	end, err := s.window.ParseClock(record.EndTime, s.granularity)
	if err != nil {
		return record.Status
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	switch {
	case nowMinutes >= end:
		return models.StatusCompleted
	case nowMinutes >= start:
		return models.StatusInProgress
	}
	return record.Status
}

func (s *ReservationsService) invalidate(ctx context.Context, date string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, date); err != nil {
		s.logger.Warn("failed to invalidate slot cache", zap.String("date", date), zap.Error(err))
	}
}

func (s *ReservationsService) validateSession(sessionID int) error {
	if sessionID < 1 || sessionID > s.sessionCount {
		return validationf("sessionId must be between 1 and %d", s.sessionCount)
	}
	return nil
}

func validateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return validationf("date must be YYYY-MM-DD")
	}
	return nil
}

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func reservationID(prefix string, sessionID int) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%d-%s", prefix, sessionID, raw[:8])
}
