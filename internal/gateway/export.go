package gateway

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/ayo6706/terminal-country-switch/internal/domain"
	"github.com/ayo6706/terminal-country-switch/internal/models"
	"go.uber.org/zap"
)

var eastern = mustLoadLocation(domain.ExportTimeZone)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load location %s: %v", name, err))
	}
	return loc
}

// ExportClient locates open batches through the transaction export API.
type ExportClient struct {
	client       *http.Client
	url          string
	clientKey    string
	clientSecret string
	version      string
	now          func() time.Time
}

func NewExportClient(client *http.Client, url, clientKey, clientSecret, version string) *ExportClient {
	return &ExportClient{
		client:       client,
		url:          url,
		clientKey:    clientKey,
		clientSecret: clientSecret,
		version:      version,
		now:          time.Now,
	}
}

// WithClock replaces the time source used for the export date window.
func (c *ExportClient) WithClock(now func() time.Time) *ExportClient {
	if now != nil {
		c.now = now
	}
	return c
}

// ExportDateWindow returns yesterday and tomorrow as US Eastern civil dates.
func ExportDateWindow(now time.Time) (from, to string) {
	y, m, d := now.In(eastern).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -1).Format(domain.ExportDateLayout),
		today.AddDate(0, 0, 1).Format(domain.ExportDateLayout)
}

// LocateBatch exports the recent records and returns the first one whose
// Identification equals terminalID.
func (c *ExportClient) LocateBatch(ctx context.Context, terminalID string) (*models.BatchRecord, error) {
	from, to := ExportDateWindow(c.now())
	form := url.Values{}
	form.Set("ClientKey", c.clientKey)
	form.Set("ClientSecret", c.clientSecret)
	form.Set("DateFrom", from)
	form.Set("DateTo", to)
	form.Set("Version", c.version)
	form.Set("Fields", domain.ExportFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build export request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		observe(endpointExport, "transport_error", start)
		return nil, fmt.Errorf("%w: export request: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		observe(endpointExport, "transport_error", start)
		return nil, fmt.Errorf("%w: read export response: %w", domain.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		observe(endpointExport, "bad_status", start)
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, statusError("export", resp, body))
	}
	observe(endpointExport, "ok", start)

	record, ok, err := FindBatchRecord(body, terminalID)
	if err != nil {
		return nil, fmt.Errorf("%w: scan export response: %w", domain.ErrUpstream, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: no open batch for terminal %s between %s and %s", domain.ErrNotFound, terminalID, from, to)
	}
	zap.L().Info("open batch located",
		zap.String("terminal_id", terminalID),
		zap.String("emid", record.EMID),
		zap.String("date_from", from),
		zap.String("date_to", to),
	)
	return &record, nil
}

// FindBatchRecord scans newline-delimited "EMID,TerminalId,Identification"
// records in order. Blank lines and lines with fewer than three fields are
// skipped. The Identification match is exact after trimming whitespace.
// The whole body is scanned; a line longer than the response cap is an error.
func FindBatchRecord(body []byte, terminalID string) (models.BatchRecord, bool, error) {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), maxResponseBytes+1)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 3 {
			continue
		}
		record := models.BatchRecord{
			EMID:           strings.TrimSpace(fields[0]),
			TerminalID:     strings.TrimSpace(fields[1]),
			Identification: strings.TrimSpace(fields[2]),
		}
		if record.Identification == terminalID {
			return record, true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return models.BatchRecord{}, false, err
	}
	return models.BatchRecord{}, false, nil
}
