package domain

import "time"

// Band is a named period of the day used to pick a greeting
type Band string

const (
	BandMorning   Band = "Morning"
	BandNoon      Band = "Noon"
	BandAfternoon Band = "Afternoon"
	BandEvening   Band = "Evening"
	BandNight     Band = "Night"
)

// Greeting is the greeting chosen for a given instant
type Greeting struct {
	Band      Band      `json:"band"`
	Message   string    `json:"message"`
	LocalTime time.Time `json:"localTime"`
}
