package scheduling

import (
	"time"

	"frontdesk/models"
)

// GenerateSlots produces the ordered candidate slots for one business day.
// Slots are [start, start+duration) stepping by duration from startHour:00; a
// trailing partial slot that would run past endHour:00 is dropped. The output
// depends only on the inputs.
func GenerateSlots(date time.Time, startHour, endHour, slotMinutes int, loc *time.Location) []models.TimeSlot {
	if slotMinutes <= 0 || startHour >= endHour {
		return nil
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), startHour, 0, 0, 0, loc)
	dayEnd := time.Date(date.Year(), date.Month(), date.Day(), endHour, 0, 0, 0, loc)
	step := time.Duration(slotMinutes) * time.Minute

	var slots []models.TimeSlot
	for t := dayStart; !t.Add(step).After(dayEnd); t = t.Add(step) {
		slots = append(slots, models.TimeSlot{
			Start: t,
			End:   t.Add(step),
			Label: FormatSlotLabel(t),
		})
	}
	return slots
}

// FormatSlotLabel renders a slot start the way the agent says it aloud.
func FormatSlotLabel(t time.Time) string {
	return t.Format("3:04 PM")
}
