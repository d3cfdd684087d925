package taskquery

import (
	"taskdeck/internal/querycache"
	"taskdeck/internal/service"
)

// Filters parameterise the task list query.
type Filters struct {
	Status service.Status `json:"status,omitempty"`
	Search string         `json:"search,omitempty"`
}

type keys struct{}

// Keys builds the task query-key hierarchy. Invalidating a key invalidates
// everything below it.
var Keys keys

func (keys) All() querycache.Key { return querycache.Key{"tasks"} }

func (k keys) Lists() querycache.Key { return k.All().Append("list") }

func (k keys) List(f Filters) querycache.Key {
	return k.Lists().Append(map[string]Filters{"filters": f})
}

func (k keys) Details() querycache.Key { return k.All().Append("detail") }

func (k keys) Detail(id service.ID) querycache.Key { return k.Details().Append(string(id)) }

func (k keys) ByStatus(s service.Status) querycache.Key {
	return k.All().Append("status", string(s))
}

func (k keys) ByUser(userID string) querycache.Key { return k.All().Append("user", userID) }

func (k keys) Search(keyword string) querycache.Key { return k.All().Append("search", keyword) }
