package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"pharmacy/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleSales() []model.Sale {
	return []model.Sale{{
		InvoiceNumber: "INV-20250314103000-ABC123",
		Date:          time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC),
		Customer:      "Doe, Jane",
		Product:       "Aspirin",
		Quantity:      3,
		Price:         decimal.RequireFromString("2"),
		Discount:      decimal.RequireFromString("1"),
		Total:         decimal.RequireFromString("5"),
		PaymentType:   "Cash",
		Cashier:       "pat@pharmacy.com",
	}}
}

func TestWriteCSV_Sales(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, SalesTable(sampleSales(), nil)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"InvoiceNumber", "Date", "Customer", "Product", "Quantity", "Price", "Discount", "Total", "PaymentType", "Cashier"}, records[0])
	assert.Equal(t, []string{
		"INV-20250314103000-ABC123", "2025-03-14 10:30:00", "Doe, Jane", "Aspirin", "3",
		"2.00", "1.00", "5.00", "Cash", "pat@pharmacy.com",
	}, records[1])
}

func TestWriteCSV_PurchasesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, PurchasesTable(nil, nil)))

	assert.Equal(t, "OrderNumber,Date,Supplier,Medicine,Quantity,TotalCost,Status\n", buf.String())
}

func TestWriteXLSX_Purchases(t *testing.T) {
	purchases := []model.Purchase{{
		OrderNumber: "PO-20250314103000-00FF00",
		Date:        time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC),
		Supplier:    "MedSupply",
		Medicine:    "Paracetamol",
		Quantity:    50,
		TotalCost:   decimal.RequireFromString("25.5"),
		Status:      model.PurchaseStatusReceived,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, PurchasesTable(purchases, time.UTC)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Purchases")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "OrderNumber", rows[0][0])
	assert.Equal(t, "Paracetamol", rows[1][3])
	assert.Equal(t, "Received", rows[1][6])

	cost, err := f.GetCellValue("Purchases", "F2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	// money keeps two decimals, as in the CSV rendering
	assert.Equal(t, "25.50", cost)
}

func TestTimestampsUseTableLocation(t *testing.T) {
	ict := time.FixedZone("ICT", 7*3600)

	var csvBuf bytes.Buffer
	require.NoError(t, WriteCSV(&csvBuf, SalesTable(sampleSales(), ict)))
	records, err := csv.NewReader(&csvBuf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-03-14 17:30:00", records[1][1])

	var xlsxBuf bytes.Buffer
	require.NoError(t, WriteXLSX(&xlsxBuf, SalesTable(sampleSales(), ict)))
	f, err := excelize.OpenReader(&xlsxBuf)
	require.NoError(t, err)
	defer f.Close()

	date, err := f.GetCellValue("Sales", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14 17:30:00", date)
}
