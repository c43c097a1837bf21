package repository

import (
	"context"
	"time"

	"pharmacy/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleFilter is shared by the paginated list and the export
type SaleFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Search    string // partial match on product or invoice number
	Cashier   string
	Page      int
	Limit     int
}

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]model.Sale, int64, error)
	ListAll(ctx context.Context, filter SaleFilter) ([]model.Sale, error)
	DatedTotals(ctx context.Context) ([]model.DatedAmount, error)
	// Aggregate counts and sums sales with from <= date < to; nil bounds are open.
	Aggregate(ctx context.Context, from, to *time.Time) (int64, decimal.Decimal, error)
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) error {
	return GetDB(ctx, r.db).Create(sale).Error
}

func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := GetDB(ctx, r.db).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) filtered(ctx context.Context, filter SaleFilter) *gorm.DB {
	db := GetDB(ctx, r.db).Model(&model.Sale{})
	if filter.StartDate != nil {
		db = db.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("date <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("product ILIKE ? OR invoice_number ILIKE ?", like, like)
	}
	if filter.Cashier != "" {
		db = db.Where("cashier = ?", filter.Cashier)
	}
	return db
}

func (r *saleRepository) List(ctx context.Context, filter SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	db := r.filtered(ctx, filter)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Order("date desc").Offset(offset).Limit(filter.Limit).Find(&sales).Error; err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// ListAll returns matching sales in chronological order
func (r *saleRepository) ListAll(ctx context.Context, filter SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale
	if err := r.filtered(ctx, filter).Order("date asc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) DatedTotals(ctx context.Context) ([]model.DatedAmount, error) {
	var rows []model.DatedAmount
	if err := GetDB(ctx, r.db).Model(&model.Sale{}).
		Select("date, total AS amount").
		Order("date asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *saleRepository) Aggregate(ctx context.Context, from, to *time.Time) (int64, decimal.Decimal, error) {
	var result struct {
		Count int64
		Sum   decimal.Decimal
	}
	db := GetDB(ctx, r.db).Model(&model.Sale{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS sum")
	if from != nil {
		db = db.Where("date >= ?", *from)
	}
	if to != nil {
		db = db.Where("date < ?", *to)
	}
	if err := db.Scan(&result).Error; err != nil {
		return 0, decimal.Zero, err
	}
	return result.Count, result.Sum, nil
}
