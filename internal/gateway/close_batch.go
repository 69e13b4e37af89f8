package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ayo6706/terminal-country-switch/internal/domain"
	"github.com/ayo6706/terminal-country-switch/internal/models"
	"go.uber.org/zap"
)

type closeBatchRequest struct {
	MerchantID      string `json:"MerchantId"`
	TerminalID      string `json:"TerminalId"`
	Identification  string `json:"Identification"`
	TransactionType string `json:"TransactionType"`
	Version         string `json:"Version"`
}

// CloseBatchClient closes settlement batches through the JSON transaction API.
type CloseBatchClient struct {
	client  *http.Client
	url     string
	version string
}

func NewCloseBatchClient(client *http.Client, url, version string) *CloseBatchClient {
	return &CloseBatchClient{client: client, url: url, version: version}
}

// CloseBatch requests closure of record's batch. A declined close is returned
// as a result with Succeeded=false; only transport and protocol failures are
// errors.
func (c *CloseBatchClient) CloseBatch(ctx context.Context, record models.BatchRecord) (*models.CloseResult, error) {
	payload, err := json.Marshal(closeBatchRequest{
		MerchantID:      record.EMID,
		TerminalID:      record.TerminalID,
		Identification:  record.Identification,
		TransactionType: domain.CloseBatchTransaction,
		Version:         c.version,
	})
	if err != nil {
		return nil, fmt.Errorf("encode close batch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build close batch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		observe(endpointCloseBatch, "transport_error", start)
		return nil, fmt.Errorf("%w: close batch request: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		observe(endpointCloseBatch, "transport_error", start)
		return nil, fmt.Errorf("%w: read close batch response: %w", domain.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		observe(endpointCloseBatch, "bad_status", start)
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, statusError("close batch", resp, body))
	}

	var result models.CloseResult
	if err := json.Unmarshal(body, &result); err != nil {
		observe(endpointCloseBatch, "bad_body", start)
		return nil, fmt.Errorf("%w: decode close batch response: %w", domain.ErrUpstream, err)
	}
	result.Succeeded = result.ResponseCode == domain.CloseBatchApproved
	observe(endpointCloseBatch, "ok", start)

	zap.L().Info("close batch replied",
		zap.String("emid", record.EMID),
		zap.String("terminal_id", record.TerminalID),
		zap.String("response_code", result.ResponseCode),
		zap.Bool("succeeded", result.Succeeded),
	)
	return &result, nil
}
