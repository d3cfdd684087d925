package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrTimeout      = errors.New("request timed out")
)

// ValidationErrors maps a task field name to its validation message.
type ValidationErrors map[string]string

// fieldOrder is the order fields appear in on the task form.
var fieldOrder = []string{"title", "description", "status", "priority", "dueDate"}

// Fields returns the failing field names in form order.
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	seen := make(map[string]bool, len(v))
	for _, f := range fieldOrder {
		if _, ok := v[f]; ok {
			fields = append(fields, f)
			seen[f] = true
		}
	}
	var rest []string
	for f := range v {
		if !seen[f] {
			rest = append(rest, f)
		}
	}
	sort.Strings(rest)
	return append(fields, rest...)
}

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, f := range v.Fields() {
		parts = append(parts, f+": "+v[f])
	}
	return "invalid task: " + strings.Join(parts, "; ")
}

// IsPermanent reports whether retrying the request cannot change the outcome.
func IsPermanent(err error) bool {
	var verrs ValidationErrors
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrBadRequest) ||
		errors.As(err, &verrs)
}
