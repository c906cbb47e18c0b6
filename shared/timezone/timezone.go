package timezone

import (
	"fmt"
	"sync"
	"time"

	"homeserve/config"

	"github.com/rs/zerolog/log"
)

var (
	once     sync.Once
	mu       sync.RWMutex
	location = time.UTC
)

// load resolves APP_TIMEZONE on first use. Booking dates and clocks are wall times in this one locale.
func load() {
	once.Do(func() {
		name := config.Get().App.Timezone
		if name == "" {
			log.Warn().Msg("No timezone configured, using UTC")

			return
		}

		if err := store(name); err != nil {
			log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, using UTC")
		}
	})
}

// SetLocation replaces the business locale and takes precedence over APP_TIMEZONE.
// name must be an IANA zone such as "Asia/Jakarta".
func SetLocation(name string) error {
	once.Do(func() {})

	return store(name)
}

func store(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("failed to load location %q: %w", name, err)
	}

	mu.Lock()
	location = loc
	mu.Unlock()

	log.Info().Str("timezone", loc.String()).Msg("Business timezone set")

	return nil
}

// Location returns the business locale.
func Location() *time.Location {
	load()

	mu.RLock()
	defer mu.RUnlock()

	return location
}

// Now is the current wall time in the business locale.
func Now() time.Time {
	return time.Now().In(Location())
}

// Format renders t in the business locale.
func Format(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
