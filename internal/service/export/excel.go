package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"agrismart/internal/domain/models"
)

const salesSheet = "Sales"

// SalesWorkbook renders the given sales into a spreadsheet with one header
// row and one row per sale, in the order received.
func SalesWorkbook(sales []models.Sale) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(salesSheet)
	if err != nil {
		return nil, fmt.Errorf("create sales sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	header := []interface{}{"Date", "Farmer", "Crop", "Quantity Sold (kg)", "Total Price"}
	if err := f.SetSheetRow(salesSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, sale := range sales {
		row := []interface{}{sale.Date, sale.FarmerName, sale.CropName, sale.QuantitySold, sale.TotalPrice}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(salesSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write sale row %d: %w", i+1, err)
		}
	}

	return f, nil
}
