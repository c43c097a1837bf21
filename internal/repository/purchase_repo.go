package repository

import (
	"context"
	"time"

	"pharmacy/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Search    string // partial match on medicine or order number
	Supplier  string
	Status    string
	Page      int
	Limit     int
}

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *model.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, filter PurchaseFilter) ([]model.Purchase, int64, error)
	ListAll(ctx context.Context, filter PurchaseFilter) ([]model.Purchase, error)
	// TransitionStatus moves id from one status to another and reports whether a row changed.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to string, at time.Time) (bool, error)
	DatedCosts(ctx context.Context) ([]model.DatedAmount, error)
	TotalCost(ctx context.Context) (decimal.Decimal, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *model.Purchase) error {
	return GetDB(ctx, r.db).Create(purchase).Error
}

func (r *purchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	if err := GetDB(ctx, r.db).First(&purchase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) filtered(ctx context.Context, filter PurchaseFilter) *gorm.DB {
	db := GetDB(ctx, r.db).Model(&model.Purchase{})
	if filter.StartDate != nil {
		db = db.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("date <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("medicine ILIKE ? OR order_number ILIKE ?", like, like)
	}
	if filter.Supplier != "" {
		db = db.Where("supplier ILIKE ?", "%"+filter.Supplier+"%")
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	return db
}

func (r *purchaseRepository) List(ctx context.Context, filter PurchaseFilter) ([]model.Purchase, int64, error) {
	var purchases []model.Purchase
	var total int64

	db := r.filtered(ctx, filter)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Order("date desc").Offset(offset).Limit(filter.Limit).Find(&purchases).Error; err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

func (r *purchaseRepository) ListAll(ctx context.Context, filter PurchaseFilter) ([]model.Purchase, error) {
	var purchases []model.Purchase
	if err := r.filtered(ctx, filter).Order("date asc").Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

func (r *purchaseRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string, at time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	if to == model.PurchaseStatusReceived {
		updates["received_at"] = at
	}
	res := GetDB(ctx, r.db).Model(&model.Purchase{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *purchaseRepository) DatedCosts(ctx context.Context) ([]model.DatedAmount, error) {
	var rows []model.DatedAmount
	if err := GetDB(ctx, r.db).Model(&model.Purchase{}).
		Select("date, total_cost AS amount").
		Order("date asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *purchaseRepository) TotalCost(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Sum decimal.Decimal
	}
	if err := GetDB(ctx, r.db).Model(&model.Purchase{}).
		Select("COALESCE(SUM(total_cost), 0) AS sum").
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Sum, nil
}
