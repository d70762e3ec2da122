package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"chitieu/internal/sheets"
	"chitieu/internal/storage"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const defaultJournalSheet = "Nhật ký"

// Config selects the spreadsheet and the service account used to write it.
// CredentialsJSON wins over CredentialsFile.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// Client appends journal rows to one sheet of a spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string

	mu            sync.Mutex
	headerEnsured bool
}

var _ sheets.JournalWriter = (*Client)(nil)

// New creates a client authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

// NewWithService wraps an existing service. An empty sheet name selects
// the default journal sheet.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheet string) *Client {
	if strings.TrimSpace(sheet) == "" {
		sheet = defaultJournalSheet
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet}
}

func loadCredentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
}

// AppendActivity writes e as a new row below the existing ones and returns
// the range it landed in. The header row is written on first use.
func (c *Client) AppendActivity(ctx context.Context, e storage.ActivityEntry) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if err := c.ensureHeader(ctx); err != nil {
		return "", err
	}

	vr := &gsheet.ValueRange{Values: [][]any{activityRow(e)}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.sheetRange("A:F"), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheet, err)
	}
	if resp.Updates == nil {
		return "", nil
	}
	return resp.Updates.UpdatedRange, nil
}

func (c *Client) ensureHeader(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.headerEnsured {
		return nil
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.sheetRange("A1:F1")).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header of sheet %s: %w", c.sheet, err)
	}
	if !hasHeader(resp.Values) {
		vr := &gsheet.ValueRange{Values: [][]any{journalHeader}}
		_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, c.sheetRange("A1:F1"), vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("write header of sheet %s: %w", c.sheet, err)
		}
	}
	c.headerEnsured = true
	return nil
}

func (c *Client) sheetRange(cells string) string {
	return fmt.Sprintf("'%s'!%s", c.sheet, cells)
}
