package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ayo6706/terminal-country-switch/internal/models"
	"github.com/ayo6706/terminal-country-switch/internal/observability"
)

// MerchantUpdater sends Create_Update_MerchantInfo to the Partner Portal.
type MerchantUpdater interface {
	// UpdateMerchant returns the parsed vendor reply. Only transport failures
	// are returned as errors; vendor rejections are carried in the result.
	UpdateMerchant(ctx context.Context, req models.UpdateRequest) (models.UpdateResult, error)
}

// BatchLocator finds the open batch belonging to a terminal.
type BatchLocator interface {
	LocateBatch(ctx context.Context, terminalID string) (*models.BatchRecord, error)
}

// BatchCloser closes a located batch.
type BatchCloser interface {
	CloseBatch(ctx context.Context, record models.BatchRecord) (*models.CloseResult, error)
}

const (
	endpointPartnerPortal = "partner_portal"
	endpointExport        = "export"
	endpointCloseBatch    = "close_batch"

	maxErrorSnippet = 256
)

// maxResponseBytes caps every vendor response body. A larger body is an
// error rather than a silently truncated read.
var maxResponseBytes = 8 << 20

// NewHTTPClient returns the client shared by all vendor calls. The timeout
// bounds each call end to end; the transport never retries on its own.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 4
	transport.IdleConnTimeout = 90 * time.Second
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxResponseBytes)+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxResponseBytes)
	}
	return body, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		return s[:maxErrorSnippet] + "..."
	}
	return s
}

func statusError(endpoint string, resp *http.Response, body []byte) error {
	if s := snippet(body); s != "" {
		return fmt.Errorf("%s returned HTTP %d: %s", endpoint, resp.StatusCode, s)
	}
	return fmt.Errorf("%s returned HTTP %d", endpoint, resp.StatusCode)
}

func observe(endpoint, outcome string, start time.Time) {
	observability.ObserveVendorCall(endpoint, outcome, time.Since(start))
}
