package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockAdjuster_AdjustByID(t *testing.T) {
	f := newFixture()
	m := f.seedMedicine("Aspirin", 10, "1.50")

	updated, err := f.adjuster.AdjustByID(context.Background(), m.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)

	updated, err = f.adjuster.AdjustByID(context.Background(), m.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, 26, updated.Quantity)
	assert.Equal(t, 2, f.medicines.Writes)
}

func TestStockAdjuster_RejectsNegativeResult(t *testing.T) {
	f := newFixture()
	m := f.seedMedicine("Aspirin", 3, "1.50")

	_, err := f.adjuster.AdjustByID(context.Background(), m.ID, -4)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	stored, _ := f.medicines.Get(m.ID)
	assert.Equal(t, 3, stored.Quantity)
	assert.Zero(t, f.medicines.Writes)
}

func TestStockAdjuster_DrainToZero(t *testing.T) {
	f := newFixture()
	m := f.seedMedicine("Aspirin", 3, "1.50")

	updated, err := f.adjuster.AdjustByID(context.Background(), m.ID, -3)
	require.NoError(t, err)
	assert.Zero(t, updated.Quantity)
}

func TestStockAdjuster_ZeroDelta(t *testing.T) {
	f := newFixture()
	m := f.seedMedicine("Aspirin", 3, "1.50")

	_, err := f.adjuster.AdjustByID(context.Background(), m.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.adjuster.AdjustByName(context.Background(), "Aspirin", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStockAdjuster_UnknownID(t *testing.T) {
	f := newFixture()

	_, err := f.adjuster.AdjustByID(context.Background(), uuid.New(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStockAdjuster_AdjustByName_Existing(t *testing.T) {
	f := newFixture()
	m := f.seedMedicine("Ibuprofen", 10, "2.00")

	updated, err := f.adjuster.AdjustByName(context.Background(), "Ibuprofen", 15)
	require.NoError(t, err)
	assert.Equal(t, m.ID, updated.ID)
	assert.Equal(t, 25, updated.Quantity)
	assert.Equal(t, 1, f.medicines.Len())
}

func TestStockAdjuster_AdjustByName_PicksOldestDuplicate(t *testing.T) {
	f := newFixture()
	first := f.seedMedicine("Ibuprofen", 1, "2.00")
	second := f.seedMedicine("Ibuprofen", 1, "2.00")

	updated, err := f.adjuster.AdjustByName(context.Background(), "Ibuprofen", 4)
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)

	untouched, _ := f.medicines.Get(second.ID)
	assert.Equal(t, 1, untouched.Quantity)
}

func TestStockAdjuster_AdjustByName_CreatesWithDefaults(t *testing.T) {
	f := newFixture()

	created, err := f.adjuster.AdjustByName(context.Background(), "Paracetamol", 50)
	require.NoError(t, err)

	assert.Equal(t, "Paracetamol", created.Name)
	assert.Equal(t, 50, created.Quantity)
	assert.Equal(t, "General", created.Category)
	assert.True(t, created.Price.IsZero())
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), created.ExpiryDate)
	assert.Equal(t, 1, f.medicines.Len())
}

func TestStockAdjuster_AdjustByName_UnknownNegative(t *testing.T) {
	f := newFixture()

	_, err := f.adjuster.AdjustByName(context.Background(), "Paracetamol", -1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.medicines.Len())
}

func TestDayOf(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	got := dayOf(time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, loc), got)
}
