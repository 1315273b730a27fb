package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// IntakeForm is the full intake-form snapshot captured when the customer
// submits a request. It is immutable once stored; reads decode back through
// this type instead of trusting the stored shape.
type IntakeForm struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	ChildName         string `json:"childName"`
	ChildAge          string `json:"childAge"`
	ChildGender       string `json:"childGender,omitempty"`
	StoryTheme        string `json:"storyTheme"`
	SpecialInterests  string `json:"specialInterests,omitempty"`
	FavoriteCharacter string `json:"favoriteCharacter,omitempty"`
	ValuesToTeach     string `json:"valuesToTeach,omitempty"`
	AdditionalDetails string `json:"additionalDetails,omitempty"`
}

// Validate checks the fields the rest of the workflow depends on.
func (f *IntakeForm) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(f.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(f.ChildName) == "" {
		missing = append(missing, "childName")
	}
	if strings.TrimSpace(f.ChildAge) == "" {
		missing = append(missing, "childAge")
	}
	if strings.TrimSpace(f.StoryTheme) == "" {
		missing = append(missing, "storyTheme")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	if !strings.Contains(f.Email, "@") {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	return nil
}

// DecodeIntakeForm decodes a stored form snapshot, rejecting unknown shapes
// instead of passing them through untyped.
func DecodeIntakeForm(raw []byte) (IntakeForm, error) {
	var form IntakeForm
	if len(raw) == 0 {
		return form, fmt.Errorf("%w: empty form snapshot", ErrFormDecode)
	}
	if err := json.Unmarshal(raw, &form); err != nil {
		return form, fmt.Errorf("%w: %v", ErrFormDecode, err)
	}
	return form, nil
}
