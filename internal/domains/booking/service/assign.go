package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"homeserve/internal/domains/booking/model"
	providerModel "homeserve/internal/domains/provider/model"
	"homeserve/shared/failure"
	"homeserve/shared/timeslot"
)

const (
	locationMatchScore = 10
	// tieBreakRange yields a tie-break in [0, 5].
	tieBreakRange = 6
)

// slotRequest is a validated booking request.
type slotRequest struct {
	serviceID  int64
	providerID int64
	date       time.Time
	start      timeslot.Clock
	duration   time.Duration
	address    string
}

// conflicts reports whether any active booking overlaps [start, start+dur).
func conflicts(bookings []model.Booking, start timeslot.Clock, dur time.Duration) bool {
	for _, booking := range bookings {
		if booking.Overlaps(start, dur) {
			return true
		}
	}

	return false
}

// candidates resolves the providers allowed to take the request, before any availability check.
func (s *serviceImpl) candidates(ctx context.Context, req slotRequest) ([]providerModel.Provider, error) {
	if req.providerID != 0 {
		provider, err := s.providerRepo.Get(ctx, req.providerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get provider: %w", err)
		}

		if !provider.Offers(req.serviceID) {
			return nil, failure.InvalidProvider("invalid provider for this service") // nolint:wrapcheck
		}

		return []providerModel.Provider{provider}, nil
	}

	providers, err := s.providerRepo.ListByService(ctx, req.serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}

	if len(providers) == 0 {
		return nil, failure.NoProviders("no providers available for this service") // nolint:wrapcheck
	}

	return providers, nil
}

// available is the unlocked snapshot check used to narrow auto-assignment.
func (s *serviceImpl) available(ctx context.Context, provider providerModel.Provider, req slotRequest) (bool, error) {
	schedule, err := s.scheduleRepo.DaySchedule(ctx, provider.ID, req.date.Weekday())
	if err != nil {
		return false, fmt.Errorf("failed to get schedule: %w", err)
	}

	if !schedule.Admits(req.start, req.duration) {
		return false, nil
	}

	bookings, err := s.repo.ListActive(ctx, provider.ID, req.date)
	if err != nil {
		return false, fmt.Errorf("failed to list bookings: %w", err)
	}

	return !conflicts(bookings, req.start, req.duration), nil
}

func (s *serviceImpl) assign(ctx context.Context, req slotRequest) (providerModel.Provider, error) {
	providers, err := s.candidates(ctx, req)
	if err != nil {
		return providerModel.Provider{}, err
	}

	free := make([]providerModel.Provider, 0, len(providers))

	for _, provider := range providers {
		ok, err := s.available(ctx, provider, req)
		if err != nil {
			return providerModel.Provider{}, err
		}

		if ok {
			free = append(free, provider)
		}
	}

	if len(free) == 0 {
		return providerModel.Provider{}, failure.AllBusy("all providers are busy at this time") // nolint:wrapcheck
	}

	return s.pick(free, req.address), nil
}

// pick scores location affinity plus a random tie-break. When no provider matches the address
// at all, the choice falls back to a uniform random pick.
func (s *serviceImpl) pick(providers []providerModel.Provider, address string) providerModel.Provider {
	addressParts := locationParts(address)
	best, bestScore := 0, -1
	matched := false

	for i, provider := range providers {
		score := locationScore(locationParts(provider.Location.String), addressParts)
		if score > 0 {
			matched = true
		}

		score += s.random.Intn(tieBreakRange)
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if !matched {
		return providers[s.random.Intn(len(providers))]
	}

	return providers[best]
}

func locationParts(value string) []string {
	parts := strings.Split(strings.ToLower(value), ",")
	res := make([]string, 0, len(parts))

	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}

	return res
}

// locationScore awards one match per provider: the first pair where either part contains the other.
func locationScore(providerParts, addressParts []string) int {
	for _, p := range providerParts {
		for _, a := range addressParts {
			if strings.Contains(a, p) || strings.Contains(p, a) {
				return locationMatchScore
			}
		}
	}

	return 0
}
