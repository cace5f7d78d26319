package webhook

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/billerops/ticketbridge/internal/config"
)

func testJiraConfig() *config.JiraConfig {
	return &config.JiraConfig{
		CloseLabel:         "Close",
		CustomerIDFields:   []string{"customfield_10496", "customfield_10019", "customfield_11227"},
		CustomerPhoneField: "customfield_11227",
		TransactionIDField: "customfield_11226",
	}
}

// closurePayload builds an issue-updated body whose changelog items are
// supplied by the caller.
func closurePayload(key, changelogItems string) []byte {
	return []byte(fmt.Sprintf(`{
		"webhookEvent": "jira:issue_updated",
		"issue": {
			"key": %q,
			"fields": {
				"summary": "Customer cannot complete payment",
				"priority": {"name": "High"},
				"project": {"key": "SDO", "name": "Service Desk Operations"},
				"customfield_10496": "CUST-8841",
				"customfield_11227": "+6281234567890",
				"customfield_11226": "TRX-20240117-0042"
			}
		},
		"changelog": {"items": [%s]}
	}`, key, changelogItems))
}

const closeItem = `{"field": "status", "fromString": "In Progress", "toString": "Close"}`

func TestInterpret_Closure(t *testing.T) {
	raw := closurePayload("SDO-123", closeItem)

	cls, err := NewInterpreter(testJiraConfig()).Interpret(raw)
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}

	if !cls.Closure {
		t.Fatalf("Closure = false, reason %q; expected closure", cls.Reason)
	}
	if cls.IssueKey != "SDO-123" {
		t.Errorf("IssueKey = %q, expected %q", cls.IssueKey, "SDO-123")
	}
	if cls.ProjectKey != "SDO" {
		t.Errorf("ProjectKey = %q, expected %q", cls.ProjectKey, "SDO")
	}
	if cls.ProjectName != "Service Desk Operations" {
		t.Errorf("ProjectName = %q, expected %q", cls.ProjectName, "Service Desk Operations")
	}

	rec := cls.Record
	if rec == nil {
		t.Fatal("Record is nil for closure")
	}
	if rec.TicketKey != "SDO-123" {
		t.Errorf("TicketKey = %q, expected %q", rec.TicketKey, "SDO-123")
	}
	if rec.TicketSummary != "Customer cannot complete payment" {
		t.Errorf("TicketSummary = %q", rec.TicketSummary)
	}
	if rec.Priority != "High" {
		t.Errorf("Priority = %q, expected %q", rec.Priority, "High")
	}
	if rec.CustomerID == nil || *rec.CustomerID != "CUST-8841" {
		t.Errorf("CustomerID = %v, expected %q", rec.CustomerID, "CUST-8841")
	}
	if rec.CustomerPhone == nil || *rec.CustomerPhone != "+6281234567890" {
		t.Errorf("CustomerPhone = %v, expected %q", rec.CustomerPhone, "+6281234567890")
	}
	if rec.TransactionID == nil || *rec.TransactionID != "TRX-20240117-0042" {
		t.Errorf("TransactionID = %v, expected %q", rec.TransactionID, "TRX-20240117-0042")
	}
	if rec.TicketURL != nil {
		t.Errorf("TicketURL = %q, expected nil without a base URL", *rec.TicketURL)
	}
	if !bytes.Equal(rec.ComplaintData, raw) {
		t.Error("ComplaintData does not retain the raw payload verbatim")
	}
}

func TestInterpret_TicketURLFromBaseURL(t *testing.T) {
	cfg := testJiraConfig()
	cfg.BrowseBaseURL = "https://jira.example.com/browse/"

	cls, err := NewInterpreter(cfg).Interpret(closurePayload("SDO-77", closeItem))
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}

	want := "https://jira.example.com/browse/SDO-77"
	if cls.Record.TicketURL == nil || *cls.Record.TicketURL != want {
		t.Errorf("TicketURL = %v, expected %q", cls.Record.TicketURL, want)
	}
}

func TestInterpret_MalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{"issue": `},
		{"missing issue key", `{"webhookEvent": "jira:issue_updated", "issue": {"fields": {"summary": "x"}}}`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInterpreter(testJiraConfig()).Interpret([]byte(tt.raw))
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("Interpret() error = %v, expected ErrMalformedPayload", err)
			}
		})
	}
}

func TestInterpret_Ignored(t *testing.T) {
	tests := []struct {
		name       string
		items      string
		wantReason string
	}{
		{"no changelog items", ``, "changelog has no items"},
		{"no status item", `{"field": "priority", "fromString": "Low", "toString": "High"}`, "no status change in changelog"},
		{"status to other label", `{"field": "status", "toString": "In Progress"}`, `status changed to "In Progress"`},
		{"close label is case-sensitive", `{"field": "status", "toString": "close"}`, `status changed to "close"`},
		{"uppercase label does not match", `{"field": "status", "toString": "CLOSE"}`, `status changed to "CLOSE"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := NewInterpreter(testJiraConfig()).Interpret(closurePayload("SDO-500", tt.items))
			if err != nil {
				t.Fatalf("Interpret() error = %v", err)
			}
			if cls.Closure {
				t.Fatal("Closure = true, expected ignored")
			}
			if cls.Record != nil {
				t.Error("Record should be nil for ignored payloads")
			}
			if !strings.Contains(cls.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, expected it to contain %q", cls.Reason, tt.wantReason)
			}
			if cls.IssueKey != "SDO-500" {
				t.Errorf("IssueKey = %q, expected %q even when ignored", cls.IssueKey, "SDO-500")
			}
		})
	}
}

func TestInterpret_LastStatusChangeDecides(t *testing.T) {
	closeThenReopen := closeItem + `, {"field": "status", "fromString": "Close", "toString": "Reopened"}`
	reopenThenClose := `{"field": "status", "fromString": "Close", "toString": "Reopened"}, ` + closeItem

	cls, err := NewInterpreter(testJiraConfig()).Interpret(closurePayload("SDO-9", closeThenReopen))
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if cls.Closure {
		t.Error("close-then-reopen classified as closure; the final status change should decide")
	}

	cls, err = NewInterpreter(testJiraConfig()).Interpret(closurePayload("SDO-9", reopenThenClose))
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if !cls.Closure {
		t.Errorf("reopen-then-close not classified as closure, reason %q", cls.Reason)
	}
}

func TestInterpret_StatusMatchedByFieldID(t *testing.T) {
	item := `{"fieldId": "status", "toString": "Close"}`

	cls, err := NewInterpreter(testJiraConfig()).Interpret(closurePayload("SDO-31", item))
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if !cls.Closure {
		t.Errorf("item with only fieldId=status not recognized, reason %q", cls.Reason)
	}
}

func TestInterpret_TolerantExtraction(t *testing.T) {
	raw := []byte(`{
		"issue": {
			"key": "SDO-321",
			"fields": {"summary": "No custom fields at all"}
		},
		"changelog": {"items": [` + closeItem + `]}
	}`)

	cls, err := NewInterpreter(testJiraConfig()).Interpret(raw)
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if !cls.Closure {
		t.Fatalf("Closure = false, reason %q", cls.Reason)
	}

	rec := cls.Record
	if rec.CustomerID != nil {
		t.Errorf("CustomerID = %q, expected nil", *rec.CustomerID)
	}
	if rec.CustomerPhone != nil {
		t.Errorf("CustomerPhone = %q, expected nil", *rec.CustomerPhone)
	}
	if rec.TransactionID != nil {
		t.Errorf("TransactionID = %q, expected nil", *rec.TransactionID)
	}
	if rec.Priority != "Unknown" {
		t.Errorf("Priority = %q, expected %q when absent", rec.Priority, "Unknown")
	}
}

func TestInterpret_CustomerIDFallbackOrder(t *testing.T) {
	// customfield_10496 is absent, so the second configured id must win.
	raw := []byte(`{
		"issue": {
			"key": "SDO-55",
			"fields": {
				"summary": "fallback",
				"customfield_10019": "CUST-2ND",
				"customfield_11227": "CUST-3RD"
			}
		},
		"changelog": {"items": [` + closeItem + `]}
	}`)

	cls, err := NewInterpreter(testJiraConfig()).Interpret(raw)
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if cls.Record.CustomerID == nil || *cls.Record.CustomerID != "CUST-2ND" {
		t.Errorf("CustomerID = %v, expected %q", cls.Record.CustomerID, "CUST-2ND")
	}
	// customfield_11227 doubles as the phone field and must still be read.
	if cls.Record.CustomerPhone == nil || *cls.Record.CustomerPhone != "CUST-3RD" {
		t.Errorf("CustomerPhone = %v, expected %q", cls.Record.CustomerPhone, "CUST-3RD")
	}
}
