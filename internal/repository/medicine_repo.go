package repository

import (
	"context"
	"time"

	"pharmacy/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MedicineFilter narrows catalog listings. LowStockMax < 0 disables the stock filter.
type MedicineFilter struct {
	Search      string
	Category    string
	LowStockMax int
	Page        int
	Limit       int
}

type MedicineRepository interface {
	Create(ctx context.Context, medicine *model.Medicine) error
	// Update writes only the given columns, so concurrent stock adjustments survive
	// edits that do not touch quantity.
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Medicine, error)
	// FindByIDForUpdate row-locks the medicine; call it inside RunInTx.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Medicine, error)
	FindByName(ctx context.Context, name string) (*model.Medicine, error)
	List(ctx context.Context, filter MedicineFilter) ([]model.Medicine, int64, error)
	ListAll(ctx context.Context) ([]model.Medicine, error)
	// AdjustQuantity adds delta to the stock of id only if the result stays non-negative.
	// It returns the number of rows changed: 0 means missing row or insufficient stock.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int, at time.Time) (int64, error)
}

type medicineRepository struct {
	db *gorm.DB
}

func NewMedicineRepository(db *gorm.DB) MedicineRepository {
	return &medicineRepository{db: db}
}

func (r *medicineRepository) Create(ctx context.Context, medicine *model.Medicine) error {
	return GetDB(ctx, r.db).Create(medicine).Error
}

func (r *medicineRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := GetDB(ctx, r.db).Model(&model.Medicine{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Medicine{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *medicineRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	var medicine model.Medicine
	if err := GetDB(ctx, r.db).First(&medicine, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &medicine, nil
}

func (r *medicineRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	var medicine model.Medicine
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&medicine, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &medicine, nil
}

// FindByName matches the name exactly. With duplicate names the oldest entry wins.
func (r *medicineRepository) FindByName(ctx context.Context, name string) (*model.Medicine, error) {
	var medicine model.Medicine
	if err := GetDB(ctx, r.db).Where("name = ?", name).Order("created_at asc").First(&medicine).Error; err != nil {
		return nil, err
	}
	return &medicine, nil
}

func (r *medicineRepository) List(ctx context.Context, filter MedicineFilter) ([]model.Medicine, int64, error) {
	var medicines []model.Medicine
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Medicine{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("name ILIKE ? OR brand ILIKE ?", like, like)
	}
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.LowStockMax >= 0 {
		db = db.Where("quantity <= ?", filter.LowStockMax)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := db.Order("name asc").Offset(offset).Limit(filter.Limit).Find(&medicines).Error; err != nil {
		return nil, 0, err
	}

	return medicines, total, nil
}

func (r *medicineRepository) ListAll(ctx context.Context) ([]model.Medicine, error) {
	var medicines []model.Medicine
	if err := GetDB(ctx, r.db).Order("name asc").Find(&medicines).Error; err != nil {
		return nil, err
	}
	return medicines, nil
}

func (r *medicineRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int, at time.Time) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.Medicine{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}
