package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlotsShape(t *testing.T) {
	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	slots := GenerateSlots(day, 9, 17, 30, time.UTC)

	require.Len(t, slots, 16)
	assert.Equal(t, "9:00 AM", slots[0].Label)
	assert.Equal(t, "4:30 PM", slots[15].Label)

	for i, s := range slots {
		assert.Equal(t, 30*time.Minute, s.End.Sub(s.Start), "slot %d length", i)
		if i > 0 {
			assert.True(t, s.Start.Equal(slots[i-1].End), "slot %d must start where slot %d ends", i, i-1)
		}
	}
	assert.True(t, slots[0].Start.Equal(day.Add(9*time.Hour)))
	assert.True(t, slots[15].End.Equal(day.Add(17*time.Hour)))
}

func TestGenerateSlotsDropsTrailingPartial(t *testing.T) {
	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	// 480 business minutes / 45 = 10 full slots; the 11th would cross closing.
	slots := GenerateSlots(day, 9, 17, 45, time.UTC)

	require.Len(t, slots, 10)
	last := slots[len(slots)-1]
	assert.False(t, last.End.After(day.Add(17*time.Hour)))
}

func TestGenerateSlotsDeterministic(t *testing.T) {
	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	a := GenerateSlots(day, 9, 17, 30, time.UTC)
	b := GenerateSlots(day, 9, 17, 30, time.UTC)
	assert.Equal(t, a, b)
}

func TestGenerateSlotsDegenerateInputs(t *testing.T) {
	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, GenerateSlots(day, 17, 9, 30, time.UTC))
	assert.Nil(t, GenerateSlots(day, 9, 17, 0, time.UTC))
}
