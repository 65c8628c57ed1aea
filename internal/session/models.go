package session

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a session item.
type Status string

const (
	StatusEligible   Status = "eligible"
	StatusIneligible Status = "ineligible"
	StatusValidated  Status = "validated"
	StatusPublished  Status = "published"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusEligible,
	StatusIneligible,
	StatusValidated,
	StatusPublished,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Session groups the items accepted from one scene scan.
type Session struct {
	ID        string
	ScenePath string
	CreatedAt time.Time
}

// NodeSettings is the per-node slice of the task settings: the ordered
// candidate work paths (highest version first) and the operator's selection.
type NodeSettings struct {
	WorkPaths []string `json:"work_paths"`
	ToPublish string   `json:"to_publish"`
}

// Item is one publishable unit tracked within a session.
type Item struct {
	ID          int64
	SessionID   string
	Node        string
	ItemType    string
	Status      Status
	Settings    NodeSettings
	PublishPath string
	Reason      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Publishable reports whether the item can still move through validate and
// publish.
func (i Item) Publishable() bool {
	switch i.Status {
	case StatusEligible, StatusValidated:
		return true
	default:
		return false
	}
}

// PublishRecord registers one completed publish.
type PublishRecord struct {
	ID          int64
	SessionID   string
	Node        string
	Version     string
	WorkPath    string
	PublishPath string
	PublishedAt time.Time
}
