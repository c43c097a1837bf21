package service

import (
	"context"
	"testing"

	"pharmacy/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePurchase_DefaultsToPending(t *testing.T) {
	f := newFixture()
	f.seedMedicine("Aspirin", 10, "1.00")

	p, err := f.purchaseService().CreatePurchase(context.Background(), CreatePurchaseRequest{
		Supplier:  "MedSupply",
		Medicine:  "Aspirin",
		Quantity:  20,
		TotalCost: dec("30.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.PurchaseStatusPending, p.Status)
	assert.Nil(t, p.ReceivedAt)
	assert.Regexp(t, `^PO-\d{14}-[0-9A-F]{6}$`, p.OrderNumber)
	assert.Zero(t, f.medicines.Writes)
	assert.Empty(t, f.events.Names())
}

func TestCreatePurchase_ReceivedCreatesUnknownMedicine(t *testing.T) {
	f := newFixture()

	p, err := f.purchaseService().CreatePurchase(context.Background(), CreatePurchaseRequest{
		Supplier:  "MedSupply",
		Medicine:  "Paracetamol",
		Quantity:  50,
		TotalCost: dec("25.00"),
		Status:    model.PurchaseStatusReceived,
	})
	require.NoError(t, err)
	require.NotNil(t, p.ReceivedAt)

	created, err := f.medicines.FindByName(context.Background(), "Paracetamol")
	require.NoError(t, err)
	assert.Equal(t, 50, created.Quantity)
	assert.Equal(t, "General", created.Category)
	assert.Equal(t, []string{EventPurchaseReceived, EventStockChanged}, f.events.Names())
}

func TestCreatePurchase_Validation(t *testing.T) {
	f := newFixture()
	svc := f.purchaseService()

	cases := map[string]CreatePurchaseRequest{
		"blank medicine":  {Medicine: "  ", Quantity: 1},
		"zero quantity":   {Medicine: "Aspirin", Quantity: 0},
		"negative cost":   {Medicine: "Aspirin", Quantity: 1, TotalCost: dec("-1")},
		"unknown status":  {Medicine: "Aspirin", Quantity: 1, Status: "Shipped"},
		"lowercase state": {Medicine: "Aspirin", Quantity: 1, Status: "pending"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreatePurchase(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestReceivePurchase_IncrementsOnce(t *testing.T) {
	f := newFixture()
	m := f.seedMedicine("Aspirin", 10, "1.00")
	p := f.purchases.Seed(model.Purchase{
		OrderNumber: "PO-1",
		Medicine:    "Aspirin",
		Quantity:    20,
		Status:      model.PurchaseStatusPending,
	})
	svc := f.purchaseService()

	received, err := svc.ReceivePurchase(context.Background(), p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseStatusReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)

	again, err := svc.ReceivePurchase(context.Background(), p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseStatusReceived, again.Status)

	stored, _ := f.medicines.Get(m.ID)
	assert.Equal(t, 30, stored.Quantity)
	assert.Equal(t, []string{EventPurchaseReceived, EventStockChanged}, f.events.Names())
}

func TestReceivePurchase_Cancelled(t *testing.T) {
	f := newFixture()
	m := f.seedMedicine("Aspirin", 10, "1.00")
	p := f.purchases.Seed(model.Purchase{OrderNumber: "PO-1", Medicine: "Aspirin", Quantity: 5, Status: model.PurchaseStatusCancelled})

	_, err := f.purchaseService().ReceivePurchase(context.Background(), p.ID.String())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, _ := f.medicines.Get(m.ID)
	assert.Equal(t, 10, stored.Quantity)
}

func TestReceivePurchase_NotFound(t *testing.T) {
	f := newFixture()
	svc := f.purchaseService()

	_, err := svc.ReceivePurchase(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ReceivePurchase(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelPurchase(t *testing.T) {
	f := newFixture()
	pending := f.purchases.Seed(model.Purchase{OrderNumber: "PO-1", Medicine: "Aspirin", Quantity: 5, Status: model.PurchaseStatusPending})
	received := f.purchases.Seed(model.Purchase{OrderNumber: "PO-2", Medicine: "Aspirin", Quantity: 5, Status: model.PurchaseStatusReceived})
	svc := f.purchaseService()

	cancelled, err := svc.CancelPurchase(context.Background(), pending.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseStatusCancelled, cancelled.Status)

	_, err = svc.CancelPurchase(context.Background(), pending.ID.String())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.CancelPurchase(context.Background(), received.ID.String())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.ReceivePurchase(context.Background(), pending.ID.String())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListPurchases_StatusFilter(t *testing.T) {
	f := newFixture()
	f.purchases.Seed(model.Purchase{OrderNumber: "PO-1", Medicine: "Aspirin", Quantity: 5, Status: model.PurchaseStatusPending})
	f.purchases.Seed(model.Purchase{OrderNumber: "PO-2", Medicine: "Aspirin", Quantity: 5, Status: model.PurchaseStatusReceived})
	svc := f.purchaseService()

	items, total, err := svc.ListPurchases(context.Background(), PurchaseListQuery{Status: model.PurchaseStatusReceived})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "PO-2", items[0].OrderNumber)

	_, _, err = svc.ListPurchases(context.Background(), PurchaseListQuery{Status: "Lost"})
	assert.ErrorIs(t, err, ErrValidation)
}
