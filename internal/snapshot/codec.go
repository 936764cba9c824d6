// Package snapshot serializes the customer set to portable files and
// retires old ones.
package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mmynk/veresiye/internal/models"
)

// Header is the fixed first row of every snapshot.
var Header = []string{"ID", "Ad", "Soyad", "Telefon", "Adres", "Borç", "Kayıt Tarihi"}

// createdAtLayout is how Kayıt Tarihi is written.
const createdAtLayout = "2006-01-02 15:04:05"

// Format is the file format of a snapshot.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" (the default for empty input) or "xlsx".
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", &models.ValidationError{Field: "format", Reason: fmt.Sprintf("unknown snapshot format %q", s)}
}

// Export writes customers to w in the given format.
func Export(w io.Writer, format Format, customers []models.Customer) error {
	switch format {
	case FormatCSV:
		return ExportCSV(w, customers)
	case FormatXLSX:
		return ExportXLSX(w, customers)
	}
	return fmt.Errorf("unknown snapshot format %q", format)
}

// ExportCSV writes one header row and one row per customer, in the order given.
func ExportCSV(w io.Writer, customers []models.Customer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range customers {
		if err := cw.Write(row(&customers[i])); err != nil {
			return fmt.Errorf("failed to write customer %d: %w", customers[i].ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

const sheetName = "Müşteriler"

// ExportXLSX writes the same columns as ExportCSV into a single-sheet workbook.
// Balances are stored as numbers with a two-decimal format so they stay summable.
func ExportXLSX(w io.Writer, customers []models.Customer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i := range customers {
		c := &customers[i]
		r := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), c.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", r), c.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", r), c.Surname)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", r), c.Phone)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", r), c.Address)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", r), c.Balance.Round(2).InexactFloat64())
		f.SetCellStyle(sheetName, fmt.Sprintf("F%d", r), fmt.Sprintf("F%d", r), moneyStyle)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", r), c.CreatedAt.Format(createdAtLayout))
	}

	f.SetColWidth(sheetName, "B", "C", 15)
	f.SetColWidth(sheetName, "D", "D", 16)
	f.SetColWidth(sheetName, "E", "E", 30)
	f.SetColWidth(sheetName, "G", "G", 20)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func row(c *models.Customer) []string {
	return []string{
		strconv.FormatInt(c.ID, 10),
		c.Name,
		c.Surname,
		c.Phone,
		c.Address,
		c.Balance.StringFixed(2),
		c.CreatedAt.Format(createdAtLayout),
	}
}
