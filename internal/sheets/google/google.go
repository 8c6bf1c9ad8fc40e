// Package google writes the studio's monthly revenue to a Google Spreadsheet
// using a service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"naildash/internal/reports"
	ports "naildash/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.RevenueWriter = (*Client)(nil)

// New creates a Sheets client for the given spreadsheet. Credentials come
// from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, sheetName string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Faturamento"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// WriteMonthly replaces the per-month revenue block of one user. Each row is
// owner, month label, total in reais. Blocks for different owners occupy
// disjoint row ranges on the same sheet; an owner's block is found by the
// owner id in column A and rewritten in place, so syncing one owner never
// touches another owner's rows.
func (c *Client) WriteMonthly(ctx context.Context, owner string, buckets []reports.MonthBucket) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := make([][]any, 0, len(buckets))
	for _, b := range buckets {
		values = append(values, []any{owner, b.Label, b.Total.Reais()})
	}

	col, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.sheetName+"!A:A").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("locate revenue block: %w", err)
	}
	start := blockStart(col.Values, owner)

	rng := fmt.Sprintf("%s!A%d:C%d", c.sheetName, start, start+len(values)-1)
	vr := &gsheet.ValueRange{Values: values}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write monthly revenue: %w", err)
	}

	slog.InfoContext(ctx, "Monthly revenue written", "owner", owner, "months", len(buckets), "range", rng)
	return nil
}

// blockStart returns the 1-based row where the owner's block starts: the
// first row whose column A holds the owner id, or the row just past the used
// range when the owner has no block yet. Block sizes are fixed (one row per
// month of the year), so rewriting at the same start row stays in bounds.
func blockStart(column [][]any, owner string) int {
	for i, row := range column {
		if len(row) > 0 && fmt.Sprint(row[0]) == owner {
			return i + 1
		}
	}
	return len(column) + 1
}
