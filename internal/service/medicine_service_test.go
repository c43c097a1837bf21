package service

import (
	"context"
	"sync"
	"testing"

	"pharmacy/internal/model"
	"pharmacy/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMedicineService(f *fixture) MedicineService {
	return NewMedicineService(f.medicines, f.tx, testPolicy, f.events, zap.NewNop())
}

func TestCreateMedicine(t *testing.T) {
	f := newFixture()

	m, err := newMedicineService(f).CreateMedicine(context.Background(), MedicineRequest{
		Name:       " Amoxicillin ",
		Brand:      "Amoxil",
		Price:      dec("4.25"),
		Quantity:   12,
		ExpiryDate: "2026-06-30",
	})
	require.NoError(t, err)

	assert.Equal(t, "Amoxicillin", m.Name)
	assert.Equal(t, "General", m.Category)
	assert.Equal(t, date(2026, 6, 30), m.ExpiryDate)
	assert.Equal(t, 1, f.medicines.Len())
}

func TestCreateMedicine_Validation(t *testing.T) {
	f := newFixture()
	svc := newMedicineService(f)

	cases := map[string]MedicineRequest{
		"bad expiry":        {Name: "A", ExpiryDate: "30/06/2026"},
		"negative price":    {Name: "A", Price: dec("-1"), ExpiryDate: "2026-06-30"},
		"negative quantity": {Name: "A", Quantity: -1, ExpiryDate: "2026-06-30"},
		"blank name":        {Name: " ", ExpiryDate: "2026-06-30"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateMedicine(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Zero(t, f.medicines.Len())
}

func TestUpdateStock_PartialFields(t *testing.T) {
	f := newFixture()
	m := f.seedMedicine("Aspirin", 10, "1.00")
	qty := 4

	updated, err := newMedicineService(f).UpdateStock(context.Background(), m.ID.String(), StockUpdateRequest{Quantity: &qty})
	require.NoError(t, err)

	assert.Equal(t, 4, updated.Quantity)
	assert.True(t, dec("1.00").Equal(updated.Price))
	assert.Equal(t, m.ExpiryDate, updated.ExpiryDate)
	assert.Equal(t, []string{EventStockChanged}, f.events.Names())
}

// saleDuringEdit commits a stock decrement the first time the row is read,
// standing in for a sale that lands while an edit is in flight.
type saleDuringEdit struct {
	*mocks.MedicineRepository
	once sync.Once
	sold int
}

func (r *saleDuringEdit) FindByID(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	r.once.Do(func() {
		_, _ = r.MedicineRepository.AdjustQuantity(ctx, id, -r.sold, fixedNow)
	})
	return r.MedicineRepository.FindByID(ctx, id)
}

func TestUpdateStock_PriceOnlyKeepsConcurrentSale(t *testing.T) {
	f := newFixture()
	m := f.seedMedicine("Aspirin", 10, "1.00")
	repo := &saleDuringEdit{MedicineRepository: f.medicines, sold: 3}
	svc := NewMedicineService(repo, f.tx, testPolicy, f.events, zap.NewNop())
	price := dec("1.50")

	updated, err := svc.UpdateStock(context.Background(), m.ID.String(), StockUpdateRequest{Price: &price})
	require.NoError(t, err)

	stored, _ := f.medicines.Get(m.ID)
	assert.Equal(t, 7, stored.Quantity)
	assert.True(t, price.Equal(stored.Price))
	assert.Equal(t, m.ExpiryDate, stored.ExpiryDate)
	assert.Equal(t, 7, updated.Quantity)
	assert.Zero(t, f.tx.Calls.Load())
}

func TestUpdateStock_QuantityRunsInTransaction(t *testing.T) {
	f := newFixture()
	m := f.seedMedicine("Aspirin", 10, "1.00")
	qty := 25
	expiry := "2027-01-31"

	updated, err := newMedicineService(f).UpdateStock(context.Background(), m.ID.String(), StockUpdateRequest{Quantity: &qty, ExpiryDate: &expiry})
	require.NoError(t, err)

	assert.Equal(t, 25, updated.Quantity)
	assert.Equal(t, date(2027, 1, 31), updated.ExpiryDate)
	assert.EqualValues(t, 1, f.tx.Calls.Load())
}

func TestUpdateStock_UnknownMedicine(t *testing.T) {
	f := newFixture()
	price := dec("1.50")
	svc := newMedicineService(f)

	_, err := svc.UpdateStock(context.Background(), uuid.NewString(), StockUpdateRequest{Price: &price})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.UpdateStock(context.Background(), "not-a-uuid", StockUpdateRequest{Price: &price})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.events.Names())
}

func TestUpdateMedicine_WritesAllColumns(t *testing.T) {
	f := newFixture()
	m := f.seedMedicine("Aspirin", 10, "1.00")

	updated, err := newMedicineService(f).UpdateMedicine(context.Background(), m.ID.String(), MedicineRequest{
		Name:       "Aspirin Forte",
		Brand:      "Bayer",
		Price:      dec("2.10"),
		Quantity:   40,
		ExpiryDate: "2026-12-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "Aspirin Forte", updated.Name)
	assert.Equal(t, "Analgesic", updated.Category)
	assert.Equal(t, 40, updated.Quantity)
	assert.Equal(t, date(2026, 12, 31), updated.ExpiryDate)
	assert.EqualValues(t, 1, f.tx.Calls.Load())
	assert.Equal(t, []string{EventStockChanged}, f.events.Names())
}

func TestUpdateStock_RejectsNegativeQuantity(t *testing.T) {
	f := newFixture()
	m := f.seedMedicine("Aspirin", 10, "1.00")
	qty := -1

	_, err := newMedicineService(f).UpdateStock(context.Background(), m.ID.String(), StockUpdateRequest{Quantity: &qty})
	assert.ErrorIs(t, err, ErrValidation)

	stored, _ := f.medicines.Get(m.ID)
	assert.Equal(t, 10, stored.Quantity)
}

func TestDeleteMedicine(t *testing.T) {
	f := newFixture()
	m := f.seedMedicine("Aspirin", 10, "1.00")
	svc := newMedicineService(f)

	require.NoError(t, svc.DeleteMedicine(context.Background(), m.ID.String()))
	assert.ErrorIs(t, svc.DeleteMedicine(context.Background(), m.ID.String()), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteMedicine(context.Background(), "x"), ErrNotFound)
}

func TestGetMedicine_NotFound(t *testing.T) {
	f := newFixture()

	_, err := newMedicineService(f).GetMedicine(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMedicines_LowStockFilter(t *testing.T) {
	f := newFixture()
	f.seedMedicine("Aspirin", 5, "1.00")
	f.seedMedicine("Ibuprofen", 6, "1.00")
	f.seedMedicine("Cetirizine", 0, "1.00")
	svc := newMedicineService(f)

	items, total, err := svc.ListMedicines(context.Background(), MedicineListQuery{LowStock: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Aspirin", items[0].Name)
	assert.Equal(t, "Cetirizine", items[1].Name)

	_, total, err = svc.ListMedicines(context.Background(), MedicineListQuery{Search: "ibu"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
