// Package notify carries "something changed" signals between the API and any
// listener that keeps derived state (the working set, browser streams).
// Receivers must not depend on the payload beyond the table name; they re-fetch.
package notify

import (
	"context"
	"encoding/json"
)

const (
	TableProjects          = "projects"
	TableScheduledProjects = "scheduled_projects"
)

type Change struct {
	Table  string `json:"table"`
	UserID uint   `json:"user_id,omitempty"`
	Action string `json:"action,omitempty"`
}

type Notifier interface {
	Publish(ctx context.Context, c Change) error
	// Subscribe delivers changes until ctx is done; the channel is closed then.
	Subscribe(ctx context.Context) (<-chan Change, error)
	Close() error
}

func encode(c Change) ([]byte, error) {
	return json.Marshal(c)
}

// decode never fails hard: an unreadable payload still means "something changed".
func decode(body []byte) Change {
	var c Change
	if err := json.Unmarshal(body, &c); err != nil {
		return Change{}
	}
	return c
}
