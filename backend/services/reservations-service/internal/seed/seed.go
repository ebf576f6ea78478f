// Package seed generates deterministic demo reservations so that every
// queried date shows a plausible mix of occupied and free slots. The
// generator is keyed by (date, session): reseeding the same date always
// produces the same records, and their ids make re-insertion skippable.
package seed

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"

	"evcharge/backend/services/reservations-service/internal/models"
	"evcharge/backend/services/reservations-service/internal/schedule"
)

const (
	occupancyChance = 0.28
	maxSpanSlots    = 3
)

var plateRegions = []string{"SEL", "GYG", "BSN", "INC", "DJN"}

// Reservations returns the fixture reservations for one (date, session) pair.
func Reservations(date string, sessionID int, w schedule.Window, granularity int) []models.Reservation {
	rng := rand.New(rand.NewSource(seedFor(date, sessionID)))

	starts := w.GridStarts(granularity)
	var out []models.Reservation
	for i := 0; i < len(starts); {
		if rng.Float64() >= occupancyChance {
			i++
			continue
		}

		span := 1 + rng.Intn(maxSpanSlots)
		start := starts[i]
		end := start + span*granularity
		if end > w.Close {
			end = w.Close
		}

		out = append(out, models.Reservation{
			ID:        fmt.Sprintf("RSV-%d-%s", sessionID, strings.ReplaceAll(schedule.FormatClock(start), ":", "")),
			SessionID: sessionID,
			Plate:     plate(rng),
			Date:      date,
			StartTime: schedule.FormatClock(start),
			EndTime:   schedule.FormatClock(end),
			Status:    models.StatusConfirmed,
			Source:    models.SourceSeed,
		})
		i += span
	}
	return out
}

func seedFor(date string, sessionID int) int64 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s#%d", date, sessionID)
	return int64(h.Sum32())
}

func plate(rng *rand.Rand) string {
	region := plateRegions[rng.Intn(len(plateRegions))]
	return fmt.Sprintf("%s-%03d-%04d", region, 100+rng.Intn(900), 1000+rng.Intn(9000))
}
