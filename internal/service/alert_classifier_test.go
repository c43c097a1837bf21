package service

import (
	"context"
	"testing"
	"time"

	"pharmacy/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	c := NewAlertClassifier(nil, testPolicy)
	today := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		qty    int
		want   AlertTag
	}{
		{"expired beats low stock", date(2025, 3, 13), 2, AlertExpired},
		{"expires today is near expiry", date(2025, 3, 14), 50, AlertNearExpiry},
		{"near expiry boundary", date(2025, 4, 13), 50, AlertNearExpiry},
		{"near expiry beats low stock", date(2025, 4, 1), 1, AlertNearExpiry},
		{"one day past window", date(2025, 4, 14), 50, AlertNone},
		{"low stock at threshold", date(2026, 1, 1), 5, AlertLowStock},
		{"out of stock", date(2026, 1, 1), 0, AlertLowStock},
		{"healthy", date(2026, 1, 1), 6, AlertNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(model.Medicine{Name: "X", Quantity: tt.qty, ExpiryDate: tt.expiry}, today)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAlerts_Ordering(t *testing.T) {
	f := newFixture()
	f.medicines.Seed(model.Medicine{Name: "Zinc", Quantity: 1, ExpiryDate: date(2026, 5, 1)})
	f.medicines.Seed(model.Medicine{Name: "Bravo", Quantity: 1, ExpiryDate: date(2026, 2, 1)})
	f.medicines.Seed(model.Medicine{Name: "Alpha", Quantity: 1, ExpiryDate: date(2026, 2, 1)})
	f.medicines.Seed(model.Medicine{Name: "Old", Quantity: 100, ExpiryDate: date(2025, 1, 1)})
	f.medicines.Seed(model.Medicine{Name: "Soon", Quantity: 100, ExpiryDate: date(2025, 3, 20)})
	f.medicines.Seed(model.Medicine{Name: "Fine", Quantity: 100, ExpiryDate: date(2026, 1, 1)})

	alerts, err := NewAlertClassifier(f.medicines, testPolicy).Alerts(context.Background(), fixedNow)
	require.NoError(t, err)

	names := make([]string, 0, len(alerts))
	for _, a := range alerts {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Old", "Soon", "Alpha", "Bravo", "Zinc"}, names)
	assert.Equal(t, AlertExpired, alerts[0].Alert)
	assert.Equal(t, AlertNearExpiry, alerts[1].Alert)
	assert.Equal(t, AlertLowStock, alerts[4].Alert)
}

func TestStats(t *testing.T) {
	f := newFixture()
	f.medicines.Seed(model.Medicine{Name: "Old", Price: dec("2.00"), Quantity: 3, ExpiryDate: date(2025, 1, 1)})
	f.medicines.Seed(model.Medicine{Name: "Low", Price: dec("1.50"), Quantity: 2, ExpiryDate: date(2026, 1, 1)})
	f.medicines.Seed(model.Medicine{Name: "Fine", Price: dec("0.25"), Quantity: 40, ExpiryDate: date(2026, 1, 1)})

	stats, err := NewAlertClassifier(f.medicines, testPolicy).Stats(context.Background(), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalMedicines)
	assert.Equal(t, 45, stats.TotalUnits)
	assert.True(t, dec("19.00").Equal(stats.StockValue), "stock value was %s", stats.StockValue)
	assert.Equal(t, 1, stats.Expired)
	assert.Equal(t, 1, stats.LowStock)
	assert.Equal(t, 0, stats.NearExpiry)
	assert.Equal(t, 1, stats.Healthy)
}
