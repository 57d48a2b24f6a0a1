package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSource is the RowSource implementation backed by the Google Sheets
// API. One instance serves one spreadsheet.
type GoogleSource struct {
	svc           *sheets.Service
	spreadsheetID string
	logger        *logging.ChanneledLogger
}

// Interface assertion.
var _ RowSource = (*GoogleSource)(nil)

// NewGoogleSource builds a Sheets API client from a service-account
// credentials file. The service account must have access to the
// spreadsheet (share it with the account's email).
func NewGoogleSource(ctx context.Context, credentialsFile, spreadsheetID string, logger *logging.ChanneledLogger) (*GoogleSource, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &GoogleSource{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}, nil
}

// ListSheetTitles returns every tab title in the spreadsheet.
func (g *GoogleSource) ListSheetTitles(ctx context.Context) ([]string, error) {
	start := time.Now()

	spreadsheet, err := g.svc.Spreadsheets.Get(g.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		g.logger.Sheets().Error("Failed to list sheet titles", "error", err.Error())
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}

	titles := make([]string, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}

	g.logger.Sheets().Debug("Listed sheet titles", "count", len(titles), "duration", time.Since(start))
	return titles, nil
}

// ReadRows fetches columns A through I of the named tab, headers included.
func (g *GoogleSource) ReadRows(ctx context.Context, title string) ([][]string, error) {
	start := time.Now()
	readRange := fmt.Sprintf("'%s'!A:I", title)

	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, readRange).
		Context(ctx).Do()
	if err != nil {
		g.logger.Sheets().Error("Failed to read rows", "sheet", title, "error", err.Error())
		return nil, fmt.Errorf("failed to read sheet %q: %w", title, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}

	g.logger.Sheets().Debug("Read sheet rows", "sheet", title, "rows", len(rows), "duration", time.Since(start))
	return rows, nil
}

// AppendRow appends one row after the tab's last data row.
func (g *GoogleSource) AppendRow(ctx context.Context, title string, cells []string) error {
	start := time.Now()
	appendRange := fmt.Sprintf("'%s'!A:I", title)

	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, appendRange, valueRange(cells)).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		g.logger.Sheets().Error("Failed to append row", "sheet", title, "error", err.Error())
		return fmt.Errorf("failed to append to sheet %q: %w", title, err)
	}

	g.logger.Sheets().Info("Appended row", "sheet", title, "duration", time.Since(start))
	return nil
}

// UpdateRow overwrites one row in place. rowIndex is the 1-based sheet row.
func (g *GoogleSource) UpdateRow(ctx context.Context, title string, rowIndex int, cells []string) error {
	start := time.Now()
	updateRange := fmt.Sprintf("'%s'!A%d:I%d", title, rowIndex, rowIndex)

	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, updateRange, valueRange(cells)).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		g.logger.Sheets().Error("Failed to update row", "sheet", title, "row", rowIndex, "error", err.Error())
		return fmt.Errorf("failed to update sheet %q row %d: %w", title, rowIndex, err)
	}

	g.logger.Sheets().Info("Updated row", "sheet", title, "row", rowIndex, "duration", time.Since(start))
	return nil
}

func valueRange(cells []string) *sheets.ValueRange {
	row := make([]any, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return &sheets.ValueRange{Values: [][]any{row}}
}
