package model

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is a single interpreted and stored reminder.
type Reminder struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	At        time.Time `json:"at" yaml:"at"`
	Input     string    `json:"input" yaml:"input"`
	Template  string    `json:"template,omitempty" yaml:"template,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// DayFile is the top-level structure stored in each daily JSON file.
// Reminders are filed under the day they are due.
type DayFile struct {
	Date      string     `json:"date"`
	Reminders []Reminder `json:"reminders"`
}

// NewReminder creates a reminder with a fresh random identifier.
func NewReminder(text string, at time.Time, input, template string, now time.Time) Reminder {
	return Reminder{
		ID:        uuid.NewString(),
		Text:      text,
		At:        at,
		Input:     input,
		Template:  template,
		CreatedAt: now,
	}
}
