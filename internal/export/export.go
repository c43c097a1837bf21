// Package export renders sales and purchases as CSV or XLSX downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"pharmacy/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const timestampLayout = "2006-01-02 15:04:05"

var (
	saleHeaders     = []string{"InvoiceNumber", "Date", "Customer", "Product", "Quantity", "Price", "Discount", "Total", "PaymentType", "Cashier"}
	purchaseHeaders = []string{"OrderNumber", "Date", "Supplier", "Medicine", "Quantity", "TotalCost", "Status"}
)

// Table is a header row plus typed cells: string, int, time.Time or decimal.Decimal.
// Timestamps are written in Location, UTC when nil.
type Table struct {
	Sheet    string
	Headers  []string
	Rows     [][]interface{}
	Location *time.Location
}

func SalesTable(sales []model.Sale, loc *time.Location) Table {
	rows := make([][]interface{}, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, []interface{}{
			s.InvoiceNumber, s.Date, s.Customer, s.Product, s.Quantity,
			s.Price, s.Discount, s.Total, s.PaymentType, s.Cashier,
		})
	}
	return Table{Sheet: "Sales", Headers: saleHeaders, Rows: rows, Location: loc}
}

func PurchasesTable(purchases []model.Purchase, loc *time.Location) Table {
	rows := make([][]interface{}, 0, len(purchases))
	for _, p := range purchases {
		rows = append(rows, []interface{}{
			p.OrderNumber, p.Date, p.Supplier, p.Medicine, p.Quantity, p.TotalCost, p.Status,
		})
	}
	return Table{Sheet: "Purchases", Headers: purchaseHeaders, Rows: rows, Location: loc}
}

func (t Table) timestamp(at time.Time) string {
	loc := t.Location
	if loc == nil {
		loc = time.UTC
	}
	return at.In(loc).Format(timestampLayout)
}

func (t Table) formatCell(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case time.Time:
		return t.timestamp(x)
	case decimal.Decimal:
		return x.StringFixed(2)
	default:
		return fmt.Sprint(x)
	}
}

// WriteCSV writes the table with standard CSV quoting
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	record := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i, cell := range row {
			record[i] = t.formatCell(cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the table as a single-sheet workbook. Money cells stay numeric.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}

	for i, h := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			switch x := v.(type) {
			case decimal.Decimal:
				if err := f.SetCellFloat(sheet, cell, x.InexactFloat64(), 2, 64); err != nil {
					return err
				}
				if err := f.SetCellStyle(sheet, cell, cell, moneyStyle); err != nil {
					return err
				}
			case time.Time:
				if err := f.SetCellStr(sheet, cell, t.timestamp(x)); err != nil {
					return err
				}
			default:
				if err := f.SetCellValue(sheet, cell, x); err != nil {
					return err
				}
			}
		}
	}

	for i := range t.Headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, 18)
	}

	return f.Write(w)
}
