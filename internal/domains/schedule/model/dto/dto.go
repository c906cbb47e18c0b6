package dto

import (
	"homeserve/internal/domains/schedule/model"
	"homeserve/shared/timeslot"
)

type DayRequest struct {
	DayOfWeek string `json:"day_of_week" validate:"required,weekday"`
	StartTime string `json:"start_time"  validate:"required,clock"`
	EndTime   string `json:"end_time"    validate:"required,clock"`
	IsActive  bool   `json:"is_active"`
}

type UpdateScheduleRequest struct {
	Schedule []DayRequest `json:"schedule" validate:"required,min=1,max=7,dive"`
}

// ToModels assumes the request already passed validation.
func (r *UpdateScheduleRequest) ToModels(providerID int64) ([]model.Schedule, error) {
	seen := map[string]bool{}
	days := make([]model.Schedule, 0, len(r.Schedule))

	for _, day := range r.Schedule {
		weekday, err := model.ParseWeekday(day.DayOfWeek)
		if err != nil {
			return nil, err
		}

		start, err := timeslot.ParseClock(day.StartTime)
		if err != nil {
			return nil, err
		}

		end, err := timeslot.ParseClock(day.EndTime)
		if err != nil {
			return nil, err
		}

		schedule := model.Schedule{
			ProviderID: providerID,
			DayOfWeek:  weekday.String(),
			StartTime:  start,
			EndTime:    end,
			IsActive:   day.IsActive,
		}

		if err := schedule.Validate(); err != nil {
			return nil, err
		}

		if seen[schedule.DayOfWeek] {
			return nil, errDuplicateDay(schedule.DayOfWeek)
		}

		seen[schedule.DayOfWeek] = true
		days = append(days, schedule)
	}

	return days, nil
}

type DayResponse struct {
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
}

type WeekResponse struct {
	ProviderID int64         `json:"provider_id"`
	Schedule   []DayResponse `json:"schedule"`
	IsDefault  bool          `json:"is_default"`
}

// FromModels marks the week as default only when nothing is stored for any day.
func (r *WeekResponse) FromModels(providerID int64, week []model.Schedule) {
	r.ProviderID = providerID
	r.IsDefault = true
	r.Schedule = make([]DayResponse, len(week))

	for i, day := range week {
		r.Schedule[i] = DayResponse{
			DayOfWeek: day.DayOfWeek,
			StartTime: day.StartTime.String(),
			EndTime:   day.EndTime.String(),
			IsActive:  day.IsActive,
		}

		if !day.IsDefault {
			r.IsDefault = false
		}
	}
}
