package models

// ChangeEventType identifies a row-level change on the request store.
type ChangeEventType string

const (
	ChangeEventInsert ChangeEventType = "INSERT"
	ChangeEventUpdate ChangeEventType = "UPDATE"
	ChangeEventDelete ChangeEventType = "DELETE"
)

// ChangeEvent is the wire payload fanned out to staff dashboards. Old is set
// for UPDATE and DELETE, New for INSERT and UPDATE.
type ChangeEvent struct {
	EventType ChangeEventType `json:"eventType"`
	RequestID string          `json:"requestId"`
	Old       *StoryRequest   `json:"old,omitempty"`
	New       *StoryRequest   `json:"new,omitempty"`
	// NewSelection marks an update that represents a fresh plot selection so
	// dashboards can surface a staff notification.
	NewSelection bool `json:"newSelection,omitempty"`
}
