package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/billerops/ticketbridge/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrMappingNotFound is returned by lookups when no row exists for the
// requested ticket key.
var ErrMappingNotFound = errors.New("ticket mapping not found")

type MappingService struct {
	db *gorm.DB
}

func NewMappingService(db *gorm.DB) *MappingService {
	return &MappingService{db: db}
}

// UpsertOutcome reports whether UpsertIfAbsent inserted a new row, and the
// creation time of whichever row now holds the ticket key.
type UpsertOutcome struct {
	Created bool
	SavedAt time.Time
}

// UpsertIfAbsent inserts the mapping unless a row already exists for its
// ticket key. The insert itself carries ON CONFLICT (ticket_key) DO NOTHING,
// so concurrent duplicate deliveries collapse onto the unique constraint
// rather than racing an existence check. A lost race therefore surfaces as
// an existing row, never as an error.
func (s *MappingService) UpsertIfAbsent(record *models.TicketCustomerMapping) (*UpsertOutcome, error) {
	record.MappingID = uuid.New().String()

	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticket_key"}},
		DoNothing: true,
	}).Create(record)
	if result.Error != nil {
		return nil, fmt.Errorf("insert mapping for %s: %w", record.TicketKey, result.Error)
	}

	if result.RowsAffected > 0 {
		return &UpsertOutcome{Created: true, SavedAt: record.CreatedOn}, nil
	}

	// Conflict path: report the stored row's creation time.
	var existing models.TicketCustomerMapping
	if err := s.db.Where("ticket_key = ?", record.TicketKey).First(&existing).Error; err != nil {
		return nil, fmt.Errorf("load existing mapping for %s: %w", record.TicketKey, err)
	}
	return &UpsertOutcome{Created: false, SavedAt: existing.CreatedOn}, nil
}

type MappingListRequest struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	TicketKey string `form:"ticket_key"`
}

type MappingListResponse struct {
	Total    int64                          `json:"total"`
	Page     int                            `json:"page"`
	PageSize int                            `json:"page_size"`
	Items    []models.TicketCustomerMapping `json:"items"`
}

// List returns paginated ticket mappings, newest first.
func (s *MappingService) List(req *MappingListRequest) (*MappingListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var items []models.TicketCustomerMapping
	var total int64

	query := s.db.Model(&models.TicketCustomerMapping{})

	if req.TicketKey != "" {
		query = query.Where("ticket_key LIKE ?", "%"+req.TicketKey+"%")
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_on DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &MappingListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// GetByTicketKey returns the mapping for a ticket key, or ErrMappingNotFound.
func (s *MappingService) GetByTicketKey(key string) (*models.TicketCustomerMapping, error) {
	var mapping models.TicketCustomerMapping
	if err := s.db.Where("ticket_key = ?", key).First(&mapping).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMappingNotFound
		}
		return nil, err
	}
	return &mapping, nil
}
