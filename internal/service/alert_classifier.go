package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"pharmacy/internal/config"
	"pharmacy/internal/model"
	"pharmacy/internal/repository"

	"github.com/shopspring/decimal"
)

type AlertTag string

const (
	AlertNone       AlertTag = ""
	AlertExpired    AlertTag = "expired"
	AlertNearExpiry AlertTag = "nearExpiry"
	AlertLowStock   AlertTag = "lowStock"
)

// rank orders alert groups in listings
func (t AlertTag) rank() int {
	switch t {
	case AlertExpired:
		return 0
	case AlertNearExpiry:
		return 1
	case AlertLowStock:
		return 2
	}
	return 3
}

type MedicineAlert struct {
	model.Medicine
	Alert AlertTag `json:"alert"`
}

// AlertClassifier derives expiry and stock alerts from the current catalog.
// Nothing is stored; every call re-reads the catalog.
type AlertClassifier interface {
	Classify(m model.Medicine, today time.Time) AlertTag
	Alerts(ctx context.Context, today time.Time) ([]MedicineAlert, error)
	Stats(ctx context.Context, today time.Time) (*model.InventoryStats, error)
}

type alertClassifier struct {
	medicineRepo repository.MedicineRepository
	policy       config.InventoryConfig
}

func NewAlertClassifier(medicineRepo repository.MedicineRepository, policy config.InventoryConfig) AlertClassifier {
	return &alertClassifier{medicineRepo: medicineRepo, policy: policy}
}

// Classify returns at most one tag. Precedence: expired, nearExpiry, lowStock.
func (c *alertClassifier) Classify(m model.Medicine, today time.Time) AlertTag {
	loc := c.policy.Location()
	day := dayOf(today, loc)
	expiry := time.Date(m.ExpiryDate.Year(), m.ExpiryDate.Month(), m.ExpiryDate.Day(), 0, 0, 0, 0, loc)

	switch {
	case expiry.Before(day):
		return AlertExpired
	case !expiry.After(day.AddDate(0, 0, c.policy.NearExpiryDays)):
		return AlertNearExpiry
	case m.Quantity <= c.policy.LowStockThreshold:
		return AlertLowStock
	}
	return AlertNone
}

func (c *alertClassifier) Alerts(ctx context.Context, today time.Time) ([]MedicineAlert, error) {
	medicines, err := c.medicineRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	alerts := make([]MedicineAlert, 0)
	for _, m := range medicines {
		if tag := c.Classify(m, today); tag != AlertNone {
			alerts = append(alerts, MedicineAlert{Medicine: m, Alert: tag})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Alert != b.Alert {
			return a.Alert.rank() < b.Alert.rank()
		}
		if !a.ExpiryDate.Equal(b.ExpiryDate) {
			return a.ExpiryDate.Before(b.ExpiryDate)
		}
		return a.Name < b.Name
	})
	return alerts, nil
}

func (c *alertClassifier) Stats(ctx context.Context, today time.Time) (*model.InventoryStats, error) {
	medicines, err := c.medicineRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	stats := &model.InventoryStats{StockValue: decimal.Zero}
	for _, m := range medicines {
		stats.TotalMedicines++
		stats.TotalUnits += m.Quantity
		stats.StockValue = stats.StockValue.Add(m.Price.Mul(decimal.NewFromInt(int64(m.Quantity))))

		switch c.Classify(m, today) {
		case AlertExpired:
			stats.Expired++
		case AlertNearExpiry:
			stats.NearExpiry++
		case AlertLowStock:
			stats.LowStock++
		default:
			stats.Healthy++
		}
	}
	return stats, nil
}
