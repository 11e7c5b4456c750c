package domain

import "time"

// Event is a read model of the event directory collaborator. Event CRUD
// lives outside this engine; only existence and the organizer id matter here.
type Event struct {
	ID          string
	Title       string
	OrganizerID string
	StartsAt    *time.Time
	CreatedAt   time.Time
}
