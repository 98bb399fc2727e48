package invoice

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/speedx-ps/subscriber-hub/internal/models"
)

const ledgerSheet = "Subscribers"

// ExportSubscribersXLSX выгружает реестр абонентов в xlsx.
// Порядок строк повторяет порядок снимка коллекции.
func ExportSubscribersXLSX(subscribers []models.Subscriber) ([]byte, error) {
	const op = "invoice.ExportSubscribersXLSX"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headers := []string{"#", "Full Name", "Phone", "Location", "Package", "Speed", "Monthly Fee", "Start Date", "End Date", "Status"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := f.SetCellValue(ledgerSheet, cell, h); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#0066CC"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := f.SetCellStyle(ledgerSheet, "A1", "J1", headerStyle); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i, sub := range subscribers {
		row := i + 2
		fee, _ := sub.MonthlyFee.Float64()

		f.SetCellValue(ledgerSheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(ledgerSheet, fmt.Sprintf("B%d", row), sub.FullName)
		f.SetCellValue(ledgerSheet, fmt.Sprintf("C%d", row), sub.Phone)
		f.SetCellValue(ledgerSheet, fmt.Sprintf("D%d", row), sub.Location)
		f.SetCellValue(ledgerSheet, fmt.Sprintf("E%d", row), sub.PackageName)
		f.SetCellValue(ledgerSheet, fmt.Sprintf("F%d", row), sub.PackageSpeed)
		f.SetCellValue(ledgerSheet, fmt.Sprintf("G%d", row), fee)
		f.SetCellValue(ledgerSheet, fmt.Sprintf("H%d", row), sub.StartDate.Format("2006-01-02"))
		f.SetCellValue(ledgerSheet, fmt.Sprintf("I%d", row), sub.EndDate.Format("2006-01-02"))
		f.SetCellValue(ledgerSheet, fmt.Sprintf("J%d", row), sub.Status)
	}

	f.SetColWidth(ledgerSheet, "A", "A", 5)
	f.SetColWidth(ledgerSheet, "B", "B", 25)
	f.SetColWidth(ledgerSheet, "C", "D", 15)
	f.SetColWidth(ledgerSheet, "E", "F", 18)
	f.SetColWidth(ledgerSheet, "G", "J", 14)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}
