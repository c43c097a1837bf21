package service

import (
	"time"

	"pharmacy/internal/config"
	"pharmacy/internal/model"
	"pharmacy/internal/repository/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var testPolicy = config.InventoryConfig{
	LowStockThreshold: 5,
	NearExpiryDays:    30,
	DefaultCategory:   "General",
	DefaultShelfLife:  365 * 24 * time.Hour,
	Timezone:          "UTC",
}

var fixedNow = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	medicines *mocks.MedicineRepository
	sales     *mocks.SaleRepository
	purchases *mocks.PurchaseRepository
	tx        *mocks.TxManager
	events    *mocks.Recorder
	adjuster  *stockAdjuster
}

func newFixture() *fixture {
	f := &fixture{
		medicines: mocks.NewMedicineRepository(),
		sales:     mocks.NewSaleRepository(),
		purchases: mocks.NewPurchaseRepository(),
		tx:        &mocks.TxManager{},
		events:    &mocks.Recorder{},
	}
	f.adjuster = NewStockAdjuster(f.medicines, testPolicy, zap.NewNop()).(*stockAdjuster)
	f.adjuster.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) saleService() *saleService {
	s := NewSaleService(f.sales, f.medicines, f.adjuster, f.tx, f.events, zap.NewNop()).(*saleService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func (f *fixture) purchaseService() *purchaseService {
	s := NewPurchaseService(f.purchases, f.adjuster, f.tx, f.events, zap.NewNop()).(*purchaseService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func (f *fixture) seedMedicine(name string, qty int, price string) model.Medicine {
	return f.medicines.Seed(model.Medicine{
		Name:       name,
		Category:   "Analgesic",
		Price:      dec(price),
		Quantity:   qty,
		ExpiryDate: date(2026, 1, 1),
	})
}

func saleOn(product string, at time.Time, qty int, total string) model.Sale {
	return model.Sale{
		InvoiceNumber: documentNumber(invoicePrefix, at),
		Date:          at,
		Product:       product,
		Quantity:      qty,
		Price:         dec(total),
		Total:         dec(total),
	}
}
