package allocator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/weekend-shifts/pkg/core/catalog"
	"github.com/jakechorley/weekend-shifts/pkg/core/model"
)

var roundStart = time.Date(2025, 12, 13, 0, 0, 0, 0, time.UTC)

func TestHasSameWeekendConflict(t *testing.T) {
	c := catalog.Generate(roundStart, 2)

	assert.False(t, HasSameWeekendConflict(c, []int{}, 0), "No held shifts means no conflict")
	assert.True(t, HasSameWeekendConflict(c, []int{0}, 1), "Saturday and Sunday of week 1")
	assert.True(t, HasSameWeekendConflict(c, []int{1}, 2), "Both Sunday shifts of week 1")
	assert.False(t, HasSameWeekendConflict(c, []int{0}, 3), "Different weekends")
	assert.False(t, HasSameWeekendConflict(c, []int{0}, 99), "Unknown candidate never conflicts")
	assert.False(t, HasSameWeekendConflict(c, []int{99}, 0), "Unknown held shifts are ignored")
}

func TestHasSameSlotConflict(t *testing.T) {
	c := catalog.Generate(roundStart, 2)

	assert.True(t, HasSameSlotConflict(c, []int{1}, 2), "Sunday morning and evening share a day")
	assert.False(t, HasSameSlotConflict(c, []int{0}, 1), "Saturday and Sunday are different days")
	assert.False(t, HasSameSlotConflict(c, []int{1}, 4), "Sundays of different weekends")
}

func TestHasSameSlotConflict_IndependentOfWeekGrouping(t *testing.T) {
	sunday := roundStart.AddDate(0, 0, 1)
	c := catalog.FromShifts([]model.Shift{
		{ID: 0, Date: sunday, Day: model.Sunday, Start: "08:00", End: "16:00", Week: 1, Capacity: 1},
		{ID: 1, Date: sunday, Day: model.Sunday, Start: "15:00", End: "22:00", Week: 2, Capacity: 1},
	})

	assert.False(t, HasSameWeekendConflict(c, []int{0}, 1))
	assert.True(t, HasSameSlotConflict(c, []int{0}, 1))
}

func TestIsEligible(t *testing.T) {
	c := catalog.Generate(roundStart, 2)

	t.Run("free shift", func(t *testing.T) {
		assert.True(t, IsEligible(c, Occupancy{}, []int{}, 0))
	})

	t.Run("full shift", func(t *testing.T) {
		occupancy := Occupancy{0: {"someone"}}
		assert.False(t, IsEligible(c, occupancy, []int{}, 0))
	})

	t.Run("weekend conflict", func(t *testing.T) {
		assert.False(t, IsEligible(c, Occupancy{}, []int{0}, 2))
	})

	t.Run("slot conflict", func(t *testing.T) {
		assert.False(t, IsEligible(c, Occupancy{}, []int{4}, 5))
	})

	t.Run("unknown shift", func(t *testing.T) {
		assert.False(t, IsEligible(c, Occupancy{}, []int{}, 6))
		assert.False(t, IsEligible(c, Occupancy{}, []int{}, -1))
	})

	t.Run("capacity above one", func(t *testing.T) {
		wide := catalog.Build(catalog.Options{Start: roundStart, Weekends: 1, DefaultCapacity: 2})
		assert.True(t, IsEligible(wide, Occupancy{0: {"a"}}, []int{}, 0))
		assert.False(t, IsEligible(wide, Occupancy{0: {"a", "b"}}, []int{}, 0))
	})
}
