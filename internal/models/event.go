package models

const (
	EventOpen   = "open"
	EventClosed = "closed"
	EventPast   = "past"
)

type Event struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Date           string   `json:"date"`
	Time           string   `json:"time"`
	Venue          string   `json:"venue"`
	Status         string   `json:"status"`
	Featured       bool     `json:"featured"`
	Capacity       int      `json:"capacity"`
	SeatsRemaining int      `json:"seatsRemaining"`
	Tags           []string `json:"tags"`
	Description    string   `json:"description"`
}
