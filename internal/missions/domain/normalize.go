package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Fields is the normalized form of a MissionInput.
// Status is empty when the input omitted it or sent a blank value.
type Fields struct {
	Title       string
	Description *string
	Status      string
}

// Normalize trims the input and enforces the title and length rules.
func (in MissionInput) Normalize() (Fields, error) {
	var f Fields

	if in.Title != nil {
		f.Title = strings.TrimSpace(*in.Title)
	}
	if f.Title == "" {
		return Fields{}, &ValidationError{Field: "title", Message: "Title is required"}
	}
	if utf8.RuneCountInString(f.Title) > MaxTitleLen {
		return Fields{}, tooLong("title", "Title", MaxTitleLen)
	}

	if in.Description != nil {
		if d := strings.TrimSpace(*in.Description); d != "" {
			if utf8.RuneCountInString(d) > MaxDescriptionLen {
				return Fields{}, tooLong("description", "Description", MaxDescriptionLen)
			}
			f.Description = &d
		}
	}

	if in.Status != nil {
		f.Status = strings.TrimSpace(*in.Status)
		if utf8.RuneCountInString(f.Status) > MaxStatusLen {
			return Fields{}, tooLong("status", "Status", MaxStatusLen)
		}
	}

	return f, nil
}

func tooLong(field, label string, max int) error {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%s must be at most %d characters", label, max),
	}
}
