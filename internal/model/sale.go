package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is an immutable record of a single-product sale.
// Product holds the medicine name at the time of sale.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNumber string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"invoiceNumber"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	Customer      string          `gorm:"type:varchar(255)" json:"customer"`
	MedicineID    uuid.UUID       `gorm:"type:uuid;index" json:"medicineId"`
	Product       string          `gorm:"type:varchar(255);not null;index" json:"product"`
	Quantity      int             `gorm:"type:int;not null" json:"quantity"`
	Price         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
	Discount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
	PaymentType   string          `gorm:"type:varchar(50)" json:"paymentType"`
	Cashier       string          `gorm:"type:varchar(255);index" json:"cashier"`
	CreatedAt     time.Time       `json:"createdAt"`
}
