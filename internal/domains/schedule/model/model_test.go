package model_test

import (
	"testing"
	"time"

	"homeserve/internal/domains/schedule/model"
	"homeserve/shared/timeslot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	for _, day := range model.Weekdays {
		schedule := model.Default(7, day, time.Sunday)

		assert.Equal(t, int64(7), schedule.ProviderID)
		assert.Equal(t, day.String(), schedule.DayOfWeek)
		assert.Equal(t, "09:00", schedule.StartTime.String())
		assert.Equal(t, "17:00", schedule.EndTime.String())
		assert.True(t, schedule.IsDefault)
		assert.Equal(t, day != time.Sunday, schedule.IsActive, day.String())
	}

	assert.False(t, model.Default(7, time.Friday, time.Friday).IsActive)
}

func TestSchedule_Admits(t *testing.T) {
	schedule := model.Default(1, time.Monday, time.Sunday)

	assert.True(t, schedule.Admits(timeslot.NewClock(9, 0), time.Hour))
	assert.True(t, schedule.Admits(timeslot.NewClock(16, 0), time.Hour))
	assert.False(t, schedule.Admits(timeslot.NewClock(16, 0), 2*time.Hour))
	assert.False(t, schedule.Admits(timeslot.NewClock(8, 0), time.Hour))
	assert.False(t, schedule.Admits(timeslot.NewClock(17, 0), time.Hour))

	sunday := model.Default(1, time.Sunday, time.Sunday)
	assert.False(t, sunday.Admits(timeslot.NewClock(10, 0), time.Hour))
}

func TestSchedule_Validate(t *testing.T) {
	valid := model.Schedule{DayOfWeek: "Monday", StartTime: timeslot.NewClock(8, 0), EndTime: timeslot.NewClock(12, 0)}
	require.NoError(t, valid.Validate())

	inverted := valid
	inverted.StartTime, inverted.EndTime = inverted.EndTime, inverted.StartTime
	assert.Error(t, inverted.Validate())

	unknown := valid
	unknown.DayOfWeek = "Someday"
	assert.Error(t, unknown.Validate())
}

func TestParseWeekday(t *testing.T) {
	day, err := model.ParseWeekday("wednesday")
	require.NoError(t, err)
	assert.Equal(t, time.Wednesday, day)

	_, err = model.ParseWeekday("")
	assert.Error(t, err)
}
