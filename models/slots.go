package models

import "time"

// TimeSlot is one bookable interval within business hours. Start and End are
// half-open ([Start, End)) and always expressed in the business timezone.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// BusyInterval is a time range reported by the external calendar during which
// the resource is already occupied.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SlotView is the narration-friendly form of a slot returned to the agent.
type SlotView struct {
	Time     string `json:"time"`
	Duration string `json:"duration"`
}
