package models

import (
	"time"

	"cuentos-server/internal/workflow"
)

// StoryRequest is one customer's order for a personalized story, identified
// by a business-assigned request id that stays stable across storage
// backends.
type StoryRequest struct {
	RequestID         string          `json:"requestId"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	ChildName         string          `json:"childName"`
	ChildAge          string          `json:"childAge"`
	StoryTheme        string          `json:"storyTheme"`
	SpecialInterests  string          `json:"specialInterests"`
	AdditionalDetails *string         `json:"additionalDetails,omitempty"`
	Status            workflow.Status `json:"status"`
	SelectedPlot      *string         `json:"selectedPlot,omitempty"`
	IllustrationStyle *string         `json:"illustrationStyle,omitempty"`
	ProductionDays    *int            `json:"productionDays,omitempty"`
	FormData          IntakeForm      `json:"formData"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// EffectiveProductionDays returns the staff-set estimate, or the default
// when none has been set.
func (r *StoryRequest) EffectiveProductionDays() int {
	if r.ProductionDays != nil && *r.ProductionDays > 0 {
		return *r.ProductionDays
	}
	return workflow.DefaultProductionDays
}

// PlotOption is one candidate story outline (title + description) offered to
// the customer. Options belong to exactly one request and are replaced
// wholesale when staff re-generate them before a selection.
type PlotOption struct {
	OptionID    string    `json:"id"`
	RequestID   string    `json:"requestId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
