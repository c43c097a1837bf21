package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pharmacy/internal/config"
	"pharmacy/internal/model"
	"pharmacy/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StockAdjuster applies signed quantity deltas to catalog entries.
// Each successful call performs exactly one row write and never leaves a negative quantity.
type StockAdjuster interface {
	AdjustByID(ctx context.Context, id uuid.UUID, delta int) (*model.Medicine, error)
	// AdjustByName resolves the medicine by exact name. A miss with a positive
	// delta creates the medicine with default category and shelf life.
	AdjustByName(ctx context.Context, name string, delta int) (*model.Medicine, error)
}

type stockAdjuster struct {
	medicineRepo repository.MedicineRepository
	policy       config.InventoryConfig
	log          *zap.Logger
	now          func() time.Time
}

func NewStockAdjuster(medicineRepo repository.MedicineRepository, policy config.InventoryConfig, log *zap.Logger) StockAdjuster {
	return &stockAdjuster{
		medicineRepo: medicineRepo,
		policy:       policy,
		log:          log,
		now:          time.Now,
	}
}

func (s *stockAdjuster) AdjustByID(ctx context.Context, id uuid.UUID, delta int) (*model.Medicine, error) {
	if delta == 0 {
		return nil, validationError("delta must be non-zero")
	}

	rows, err := s.medicineRepo.AdjustQuantity(ctx, id, delta, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	medicine, err := s.medicineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "medicine")
	}
	if rows == 0 {
		s.log.Warn("stock adjustment rejected",
			zap.String("medicine_id", id.String()),
			zap.Int("quantity", medicine.Quantity),
			zap.Int("delta", delta))
		return nil, ErrInsufficientStock
	}
	return medicine, nil
}

func (s *stockAdjuster) AdjustByName(ctx context.Context, name string, delta int) (*model.Medicine, error) {
	if delta == 0 {
		return nil, validationError("delta must be non-zero")
	}

	medicine, err := s.medicineRepo.FindByName(ctx, name)
	if err == nil {
		return s.AdjustByID(ctx, medicine.ID, delta)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up medicine: %w", err)
	}
	if delta < 0 {
		return nil, fmt.Errorf("medicine %q %w", name, ErrNotFound)
	}

	now := s.now()
	created := &model.Medicine{
		Name:       name,
		Category:   s.policy.DefaultCategory,
		Price:      decimal.Zero,
		Quantity:   delta,
		ExpiryDate: dayOf(now.Add(s.policy.DefaultShelfLife), s.policy.Location()),
	}
	if err := s.medicineRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create medicine: %w", err)
	}

	s.log.Info("medicine created from stock receipt",
		zap.String("medicine_id", created.ID.String()),
		zap.String("name", name),
		zap.Int("quantity", delta))
	return created, nil
}

// dayOf truncates t to midnight in loc.
func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
