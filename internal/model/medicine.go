package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Medicine is a catalog entry together with its current stock level.
// Sales and purchases refer to it by Name, not by ID.
type Medicine struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Brand      string          `gorm:"type:varchar(255)" json:"brand"`
	Category   string          `gorm:"type:varchar(100);index" json:"category"`
	Price      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"price"`
	Quantity   int             `gorm:"type:int;not null;default:0;check:quantity >= 0" json:"quantity"`
	ExpiryDate time.Time       `gorm:"type:date;not null" json:"expiryDate"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
