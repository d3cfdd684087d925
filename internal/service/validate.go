package service

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// Validate checks the input the way the task form does before submitting.
// now decides which due dates count as past: anything before local midnight
// of now's day.
func (in TaskInput) Validate(now time.Time) error {
	errs := ValidationErrors{}

	if strings.TrimSpace(in.Title) == "" {
		errs["title"] = "Title is required"
	} else if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		errs["title"] = "Title must be less than 200 characters"
	}

	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		errs["description"] = "Description must be less than 1000 characters"
	}

	if !in.Status.Valid() {
		errs["status"] = "Invalid status"
	}

	if in.Priority != "" && !in.Priority.Valid() {
		errs["priority"] = "Invalid priority"
	}

	if in.DueDate != nil && !in.DueDate.IsZero() {
		y, m, d := now.Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		if in.DueDate.Before(midnight) {
			errs["dueDate"] = "Due date cannot be in the past"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
