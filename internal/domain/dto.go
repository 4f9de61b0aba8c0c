package domain

import "github.com/go-playground/validator/v10"

var Validate = validator.New()

// EventDTO is the raw catalogue record as fetched from the data service,
// before snapshot ingestion. Validation tags describe the shape the view
// engine will accept; anything failing them is dropped at ingestion with a
// logged warning, never on recomputation.

type EventDTO struct {
	ID   int64  `json:"id" firestore:"id" validate:"required"`
	Slug string `json:"slug" firestore:"slug" validate:"required"`

	Title       string `json:"title" firestore:"title" validate:"required"`
	Description string `json:"description" firestore:"description"`
	ImageURL    string `json:"image_url" firestore:"image_url"`

	EventType string `json:"event_type" firestore:"event_type" validate:"required"`

	StartTime string `json:"start_time" firestore:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   string `json:"end_time" firestore:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`

	MaxParticipants *int `json:"max_participants" firestore:"max_participants" validate:"omitempty,gt=0"`
	SpotsRemaining  *int `json:"spots_remaining" firestore:"spots_remaining" validate:"omitempty,gte=0"`

	IsRegistrationOpen bool `json:"is_registration_open" firestore:"is_registration_open"`

	Location  string   `json:"location" firestore:"location"`
	Latitude  *float64 `json:"latitude" firestore:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" firestore:"longitude" validate:"omitempty,longitude"`

	Price           string `json:"price" firestore:"price" validate:"omitempty,numeric"`
	RequiresPayment bool   `json:"requires_payment" firestore:"requires_payment"`
}

// RegistrationDTO is the submit-registration request body.
// EventID identifies the target event; participant details are free-form
// apart from the required name and a well-formed email.

type RegistrationDTO struct {
	EventID int64  `json:"event_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

// HighlightRequestDTO asks the coordinator to walk the calendar to a date.
// Date uses the calendar-date form; EventID optionally pins the marker
// cursor to a specific event on arrival.

type HighlightRequestDTO struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	EventID int64  `json:"event_id"`
}
