package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventUserLoggedOut  EventType = "user_logged_out"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Method string `json:"method"`
}

// UserLoggedInPayload payload.
type UserLoggedInPayload struct {
	Method string `json:"method"`
}

// UserLoggedOutPayload payload.
type UserLoggedOutPayload struct {
	SessionID string `json:"session_id"`
}
