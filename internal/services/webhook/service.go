package webhook

import (
	"fmt"
	"time"

	"github.com/billerops/ticketbridge/internal/config"
	"github.com/billerops/ticketbridge/internal/services"
	"github.com/billerops/ticketbridge/pkg/logger"
	"gorm.io/gorm"
)

// Webhook response statuses.
const (
	StatusProcessed = "processed"
	StatusSkipped   = "skipped"
	StatusError     = "error"
)

// IssueEventResponse is the JSON body returned to Jira for every webhook
// delivery.
type IssueEventResponse struct {
	Status          string  `json:"status"`
	Message         string  `json:"message"`
	IssueKey        string  `json:"issueKey"`
	ProjectKey      string  `json:"projectKey"`
	ProjectName     string  `json:"projectName"`
	TriggeredByUser string  `json:"triggeredByUser"`
	SavedAt         *string `json:"savedAt"`
}

// Service handles Jira issue webhooks end to end: classify the payload,
// persist closures idempotently, and shape the response.
type Service struct {
	interpreter *Interpreter
	mappings    *services.MappingService
}

// NewService creates a new webhook Service instance
func NewService(db *gorm.DB, jiraCfg *config.JiraConfig) *Service {
	return &Service{
		interpreter: NewInterpreter(jiraCfg),
		mappings:    services.NewMappingService(db),
	}
}

// ProcessIssueEvent runs one webhook delivery through the pipeline.
// Malformed payloads surface as ErrMalformedPayload; persistence failures
// surface as ordinary errors. Duplicate deliveries for an already-mapped
// ticket key are a success, not an error.
func (s *Service) ProcessIssueEvent(raw []byte, triggeredBy string) (*IssueEventResponse, error) {
	cls, err := s.interpreter.Interpret(raw)
	if err != nil {
		return nil, err
	}

	resp := &IssueEventResponse{
		IssueKey:        cls.IssueKey,
		ProjectKey:      cls.ProjectKey,
		ProjectName:     cls.ProjectName,
		TriggeredByUser: triggeredBy,
	}

	if !cls.Closure {
		logger.Infof("[Webhook] Skipping %s: %s", cls.IssueKey, cls.Reason)
		resp.Status = StatusSkipped
		resp.Message = cls.Reason
		return resp, nil
	}

	outcome, err := s.mappings.UpsertIfAbsent(cls.Record)
	if err != nil {
		return nil, fmt.Errorf("persist mapping for %s: %w", cls.IssueKey, err)
	}

	savedAt := outcome.SavedAt.UTC().Format(time.RFC3339)
	resp.Status = StatusProcessed
	resp.SavedAt = &savedAt
	if outcome.Created {
		logger.Infof("[Webhook] Saved ticket mapping for %s", cls.IssueKey)
		resp.Message = fmt.Sprintf("Ticket %s closure saved", cls.IssueKey)
	} else {
		logger.Infof("[Webhook] Ticket mapping for %s already exists", cls.IssueKey)
		resp.Message = fmt.Sprintf("Ticket %s closure already recorded", cls.IssueKey)
	}
	return resp, nil
}
