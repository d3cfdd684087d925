package commands

import (
	"errors"
	"fmt"
	"strings"

	"taskdeck/internal/service"
)

// ErrTaskIDRequired indicates no task id was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID parses the single task id argument of show, edit, done and rm.
// IDs are opaque: numeric ids and UUIDs are both accepted.
func ParseTaskID(args []string) (service.ID, error) {
	if len(args) == 0 {
		return "", ErrTaskIDRequired
	}
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected argument: %s", args[1])
	}
	id := strings.TrimSpace(args[0])
	if id == "" {
		return "", ErrTaskIDRequired
	}
	if strings.ContainsAny(id, "/?#") {
		return "", fmt.Errorf("invalid task id: %s", id)
	}
	return service.ID(id), nil
}
