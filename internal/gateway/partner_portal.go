package gateway

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ayo6706/terminal-country-switch/internal/domain"
	"github.com/ayo6706/terminal-country-switch/internal/models"
	"go.uber.org/zap"
)

// PartnerPortalClient calls the Partner Portal SOAP API.
type PartnerPortalClient struct {
	client *http.Client
	url    string
	creds  models.Credentials
}

func NewPartnerPortalClient(client *http.Client, url string, creds models.Credentials) *PartnerPortalClient {
	return &PartnerPortalClient{client: client, url: url, creds: creds}
}

// UpdateMerchant posts the envelope and parses the reply whatever the HTTP
// status; the vendor reports failures through the in-body response code.
func (c *PartnerPortalClient) UpdateMerchant(ctx context.Context, req models.UpdateRequest) (models.UpdateResult, error) {
	envelope, err := BuildMerchantUpdateEnvelope(c.creds, req.MerchantID, req.CountryCode)
	if err != nil {
		return models.UpdateResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(envelope))
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("build partner portal request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("SOAPAction", soapAction)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		observe(endpointPartnerPortal, "transport_error", start)
		return models.UpdateResult{}, fmt.Errorf("%w: partner portal request: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := readBody(resp)
	if err != nil {
		observe(endpointPartnerPortal, "transport_error", start)
		return models.UpdateResult{}, fmt.Errorf("%w: read partner portal response: %w", domain.ErrUpstream, err)
	}

	result := ParseMerchantUpdateResponse(raw)
	outcome := "parsed"
	if !result.Parsed {
		outcome = "unparsed"
	}
	observe(endpointPartnerPortal, outcome, start)

	zap.L().Debug("partner portal replied",
		zap.String("merchant_id", req.MerchantID),
		zap.Int("http_status", resp.StatusCode),
		zap.String("response_code", result.ResponseCode),
	)
	return result, nil
}
