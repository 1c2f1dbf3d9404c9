package domain

import "time"

// Mission is a small unit of work owned by exactly one user.
// It is storage-agnostic and shared by the repository, service and HTTP layers.
type Mission struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Documented status values. Status is free text; these are the values the UI offers.
const (
	StatusPlanning   = "Planning"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusNotStarted = "Not Started"

	DefaultStatus = StatusInProgress
)

var KnownStatuses = []string{StatusPlanning, StatusInProgress, StatusCompleted, StatusNotStarted}

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
	MaxStatusLen      = 64
)

// MissionInput carries the client-editable fields. A nil pointer means the
// field was omitted from the request.
type MissionInput struct {
	Title       *string
	Description *string
	Status      *string
}
