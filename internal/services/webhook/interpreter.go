package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/billerops/ticketbridge/internal/config"
	"github.com/billerops/ticketbridge/internal/models"
	"gorm.io/datatypes"
)

// ErrMalformedPayload reports a webhook body that cannot be processed at
// all: invalid JSON, or a payload without an issue key.
var ErrMalformedPayload = errors.New("malformed webhook payload")

// Classification is the interpreter's verdict on one webhook payload.
// A closure carries the record to persist; anything else carries the reason
// the payload was ignored.
type Classification struct {
	Closure     bool
	Reason      string
	Record      *models.TicketCustomerMapping
	IssueKey    string
	ProjectKey  string
	ProjectName string
}

// Interpreter classifies Jira issue webhooks and extracts the mapping row a
// closure should persist. It is a pure transform over the payload plus the
// configuration captured at construction; it never touches storage.
type Interpreter struct {
	closeLabel       string
	browseBaseURL    string
	customerIDFields []string
	phoneField       string
	transactionField string
}

func NewInterpreter(cfg *config.JiraConfig) *Interpreter {
	return &Interpreter{
		closeLabel:       cfg.CloseLabel,
		browseBaseURL:    cfg.BrowseBaseURL,
		customerIDFields: cfg.CustomerIDFields,
		phoneField:       cfg.CustomerPhoneField,
		transactionField: cfg.TransactionIDField,
	}
}

// Interpret validates and classifies a raw webhook body. It returns
// ErrMalformedPayload (wrapped) for bodies that cannot be interpreted;
// every other payload classifies cleanly as closure or ignored.
func (i *Interpreter) Interpret(raw []byte) (*Classification, error) {
	var evt IssueEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if evt.Issue.Key == "" {
		return nil, fmt.Errorf("%w: missing issue.key", ErrMalformedPayload)
	}

	cls := &Classification{IssueKey: evt.Issue.Key}
	if p := evt.Issue.Fields.Project; p != nil {
		cls.ProjectKey = p.Key
		cls.ProjectName = p.Name
	}

	if len(evt.Changelog.Items) == 0 {
		cls.Reason = "changelog has no items"
		return cls, nil
	}

	item, found := lastStatusChange(evt.Changelog.Items)
	if !found {
		cls.Reason = "no status change in changelog"
		return cls, nil
	}
	if item.ToString != i.closeLabel {
		cls.Reason = fmt.Sprintf("status changed to %q, not %q", item.ToString, i.closeLabel)
		return cls, nil
	}

	cls.Closure = true
	cls.Record = i.buildRecord(&evt, raw)
	return cls, nil
}

// lastStatusChange returns the final status-field item of a changelog.
// When one webhook carries several status changes the last one reflects the
// issue's resulting state, so it alone decides the classification.
func lastStatusChange(items []ChangelogItem) (*ChangelogItem, bool) {
	for idx := len(items) - 1; idx >= 0; idx-- {
		item := &items[idx]
		if strings.EqualFold(item.Field, "status") || strings.EqualFold(item.FieldID, "status") {
			return item, true
		}
	}
	return nil, false
}

// buildRecord extracts the persistable mapping from a closure payload.
// Custom-field extraction is tolerant: absent or non-scalar values become
// nulls, never errors. The raw body is retained verbatim for audit.
func (i *Interpreter) buildRecord(evt *IssueEvent, raw []byte) *models.TicketCustomerMapping {
	record := &models.TicketCustomerMapping{
		TicketKey:     evt.Issue.Key,
		TicketSummary: evt.Issue.Fields.Summary,
		Priority:      "Unknown",
		ComplaintData: datatypes.JSON(raw),
	}

	if p := evt.Issue.Fields.Priority; p != nil && p.Name != "" {
		record.Priority = p.Name
	}

	if i.browseBaseURL != "" {
		url := strings.TrimRight(i.browseBaseURL, "/") + "/" + evt.Issue.Key
		record.TicketURL = &url
	}

	// First non-empty field in the configured chain supplies the customer id.
	for _, id := range i.customerIDFields {
		if v, ok := evt.Issue.Fields.StringField(id); ok {
			record.CustomerID = &v
			break
		}
	}
	if v, ok := evt.Issue.Fields.StringField(i.phoneField); ok {
		record.CustomerPhone = &v
	}
	if v, ok := evt.Issue.Fields.StringField(i.transactionField); ok {
		record.TransactionID = &v
	}

	return record
}
