package scheduling

import "frontdesk/models"

// FilterAvailable returns the subsequence of candidate slots that do not
// overlap any busy interval. Intervals are half-open: a slot that starts
// exactly when a busy interval ends, or ends exactly when one begins, stays
// available. Busy intervals carry absolute instants, so comparisons hold no
// matter which offset the calendar reported them in.
func FilterAvailable(slots []models.TimeSlot, busy []models.BusyInterval) []models.TimeSlot {
	var available []models.TimeSlot
	for _, s := range slots {
		if !overlapsAny(s, busy) {
			available = append(available, s)
		}
	}
	return available
}

func overlapsAny(s models.TimeSlot, busy []models.BusyInterval) bool {
	for _, b := range busy {
		if s.Start.Before(b.End) && s.End.After(b.Start) {
			return true
		}
	}
	return false
}
