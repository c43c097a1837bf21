package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseStatus constants
const (
	PurchaseStatusPending   = "Pending"
	PurchaseStatusReceived  = "Received"
	PurchaseStatusCancelled = "Cancelled"
)

// Purchase is a supplier order for one medicine, referenced by name.
// Received and Cancelled are terminal.
type Purchase struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"orderNumber"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Supplier    string          `gorm:"type:varchar(255);index" json:"supplier"`
	Medicine    string          `gorm:"type:varchar(255);not null;index" json:"medicine"`
	Quantity    int             `gorm:"type:int;not null" json:"quantity"`
	TotalCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"totalCost"`
	Status      string          `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	ReceivedAt  *time.Time      `json:"receivedAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// IsValidPurchaseStatus reports whether s is a known purchase status.
func IsValidPurchaseStatus(s string) bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusReceived, PurchaseStatusCancelled:
		return true
	}
	return false
}
