package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"agrismart/internal/config"
	"agrismart/internal/domain/models"
)

const snapshotRange = "Snapshots!A:J"

// Exporter mirrors daily dashboard snapshots into a spreadsheet for
// off-system bookkeeping.
type Exporter interface {
	AppendSnapshot(ctx context.Context, snapshot models.DailySnapshot) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSnapshot appends one snapshot as a row to the snapshots sheet.
func (e *GoogleSheetExporter) AppendSnapshot(ctx context.Context, snapshot models.DailySnapshot) error {
	row := []interface{}{
		snapshot.Date.Format(models.DateLayout),
		snapshot.TotalFarmers,
		snapshot.TotalCrops,
		snapshot.TotalSales,
		snapshot.TotalRevenue,
		snapshot.TotalLandArea,
		snapshot.TotalQuantitySold,
		snapshot.SeasonCounts[string(models.SeasonKharif)],
		snapshot.SeasonCounts[string(models.SeasonRabi)],
		snapshot.SeasonCounts[string(models.SeasonZaid)],
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, snapshotRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append snapshot row into range %s: %w", snapshotRange, err)
	}

	e.logger.Debug("snapshot appended to sheet", zap.String("range", snapshotRange))
	return nil
}
