package webhook

import (
	"encoding/json"
	"strconv"
)

// IssueEvent represents a Jira issue webhook callback.
type IssueEvent struct {
	Timestamp          int64     `json:"timestamp"`
	WebhookEvent       string    `json:"webhookEvent"`
	IssueEventTypeName string    `json:"issue_event_type_name"`
	User               User      `json:"user"`
	Issue              Issue     `json:"issue"`
	Changelog          Changelog `json:"changelog"`
}

// User identifies the Jira account that triggered the event.
type User struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// Issue is the issue fragment of an IssueEvent.
type Issue struct {
	ID     string      `json:"id"`
	Self   string      `json:"self"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// IssueFields carries the typed issue fields plus a lookup table of every
// field in the payload keyed by raw field id, so configured custom-field ids
// can be resolved without schema knowledge.
type IssueFields struct {
	Summary  string
	Priority *Priority
	Project  *Project
	ByID     map[string]interface{}
}

func (f *IssueFields) UnmarshalJSON(data []byte) error {
	var known struct {
		Summary  string    `json:"summary"`
		Priority *Priority `json:"priority"`
		Project  *Project  `json:"project"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var byID map[string]interface{}
	if err := json.Unmarshal(data, &byID); err != nil {
		return err
	}

	f.Summary = known.Summary
	f.Priority = known.Priority
	f.Project = known.Project
	f.ByID = byID
	return nil
}

// StringField resolves a field id to its string value. Jira renders text
// custom fields as strings and numeric ones as numbers; both are accepted.
// Missing fields, nulls, empty strings, and structured values report
// ok=false.
func (f *IssueFields) StringField(id string) (string, bool) {
	v, exists := f.ByID[id]
	if !exists || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Priority is the priority fragment of an issue.
type Priority struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project is the project fragment of an issue.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Changelog lists the field-level changes carried by one webhook event.
type Changelog struct {
	ID    string          `json:"id"`
	Items []ChangelogItem `json:"items"`
}

// ChangelogItem is a single field change within a webhook changelog.
type ChangelogItem struct {
	Field      string `json:"field"`
	FieldID    string `json:"fieldId"`
	FieldType  string `json:"fieldtype"`
	From       string `json:"from"`
	FromString string `json:"fromString"`
	To         string `json:"to"`
	ToString   string `json:"toString"`
}
