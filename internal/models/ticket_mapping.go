package models

import (
	"time"

	"gorm.io/datatypes"
)

// TicketCustomerMapping links a closed Jira ticket to the customer identifiers
// extracted from its custom fields. Rows are write-once: exactly one row per
// ticket key, created by the first closure webhook for that key. The
// close_notified columns are reserved for a downstream notifier and are never
// written by this service.
type TicketCustomerMapping struct {
	MappingID       string         `gorm:"primaryKey;size:36" json:"mapping_id"`
	TicketKey       string         `gorm:"uniqueIndex;size:50;not null" json:"ticket_key"`
	CustomerID      *string        `gorm:"size:255" json:"customer_id"`
	CustomerPhone   *string        `gorm:"size:50" json:"customer_phone"`
	TransactionID   *string        `gorm:"size:255" json:"transaction_id"`
	TicketSummary   string         `gorm:"type:text" json:"ticket_summary"`
	TicketURL       *string        `gorm:"size:500" json:"ticket_url"`
	Priority        string         `gorm:"size:50" json:"priority"`
	ComplaintData   datatypes.JSON `gorm:"not null" json:"complaint_data"`
	CloseNotified   bool           `gorm:"default:false" json:"close_notified"`
	CloseNotifiedOn *time.Time     `json:"close_notified_on"`
	CloseNotifiedBy *string        `gorm:"size:255" json:"close_notified_by"`
	CreatedOn       time.Time      `gorm:"autoCreateTime" json:"created_on"`
	UpdatedOn       time.Time      `gorm:"autoUpdateTime" json:"updated_on"`
}

func (TicketCustomerMapping) TableName() string { return "tb_r_ticket_customer_mapping" }
