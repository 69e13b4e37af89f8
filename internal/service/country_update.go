package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayo6706/terminal-country-switch/internal/domain"
	"github.com/ayo6706/terminal-country-switch/internal/gateway"
	"github.com/ayo6706/terminal-country-switch/internal/models"
	"github.com/ayo6706/terminal-country-switch/internal/observability"
	"go.uber.org/zap"
)

// CountryUpdateService changes a merchant's country and recovers from an
// open settlement batch blocking the change.
type CountryUpdateService struct {
	updater gateway.MerchantUpdater
	locator gateway.BatchLocator
	closer  gateway.BatchCloser
	logger  *zap.Logger
}

func NewCountryUpdateService(updater gateway.MerchantUpdater, locator gateway.BatchLocator, closer gateway.BatchCloser) *CountryUpdateService {
	return &CountryUpdateService{
		updater: updater,
		locator: locator,
		closer:  closer,
		logger:  zap.L(),
	}
}

// WithLogger sets the logger used for workflow transitions.
func (s *CountryUpdateService) WithLogger(logger *zap.Logger) *CountryUpdateService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// UpdateCountry sends the update and, when the vendor answers with the open
// batch code, locates and closes the batch and retries the update once.
//
// Only a transport failure of the first update call is returned as an error.
// Failures while recovering are reported through the outcome's batch fields,
// with the first update's result left in place.
func (s *CountryUpdateService) UpdateCountry(ctx context.Context, req models.UpdateRequest) (*models.WorkflowOutcome, error) {
	log := s.logger.With(
		zap.String("merchant_id", req.MerchantID),
		zap.String("terminal_id", req.TerminalID),
		zap.String("country_code", req.CountryCode),
	)

	result, err := s.updater.UpdateMerchant(ctx, req)
	if err != nil {
		observability.IncrementCountryUpdate("error")
		log.Error("merchant update failed", zap.Error(err))
		return nil, fmt.Errorf("update merchant: %w", err)
	}
	log.Info("merchant update sent",
		zap.String("response_code", result.ResponseCode),
		zap.Bool("succeeded", result.Succeeded),
	)

	outcome := &models.WorkflowOutcome{Result: result}
	if result.ResponseCode != domain.ResponseCodeOpenBatch {
		observability.IncrementBatchRecovery(domain.RecoveryNotNeeded)
		recordOutcome(outcome)
		return outcome, nil
	}

	outcome.BatchCloseAttempted = true
	log.Warn("open batch blocks merchant update, closing batch")
	s.recoverOpenBatch(ctx, log, req, outcome)
	recordOutcome(outcome)
	return outcome, nil
}

func (s *CountryUpdateService) recoverOpenBatch(ctx context.Context, log *zap.Logger, req models.UpdateRequest, outcome *models.WorkflowOutcome) {
	record, err := s.locator.LocateBatch(ctx, req.TerminalID)
	if err != nil {
		outcome.BatchCloseError = describeLocateError(err)
		observability.IncrementBatchRecovery(domain.RecoveryLocateFail)
		log.Warn("open batch lookup failed", zap.Error(err))
		return
	}

	closed, err := s.closer.CloseBatch(ctx, *record)
	if err != nil {
		outcome.BatchCloseError = fmt.Sprintf("Batch close request failed: %v", err)
		observability.IncrementBatchRecovery(domain.RecoveryCloseFail)
		log.Warn("close batch request failed", zap.String("emid", record.EMID), zap.Error(err))
		return
	}
	if !closed.Succeeded {
		outcome.BatchCloseError = fmt.Sprintf("Batch close failed: %s - %s", closed.ResponseCode, closed.ResponseText)
		observability.IncrementBatchRecovery(domain.RecoveryCloseFail)
		log.Warn("close batch declined",
			zap.String("emid", record.EMID),
			zap.String("response_code", closed.ResponseCode),
			zap.String("response_text", closed.ResponseText),
		)
		return
	}
	outcome.BatchClosed = true
	log.Info("open batch closed, retrying merchant update", zap.String("emid", record.EMID))

	// A retry that reports the open batch code again is final.
	retry, err := s.updater.UpdateMerchant(ctx, req)
	if err != nil {
		outcome.BatchCloseError = fmt.Sprintf("Batch closed but retrying the update failed: %v", err)
		observability.IncrementBatchRecovery(domain.RecoveryRetryFail)
		log.Error("merchant update retry failed", zap.Error(err))
		return
	}
	outcome.Retried = true
	outcome.Result = retry
	observability.IncrementBatchRecovery(domain.RecoveryCompleted)
	log.Info("merchant update retried",
		zap.String("response_code", retry.ResponseCode),
		zap.Bool("succeeded", retry.Succeeded),
	)
}

func describeLocateError(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Sprintf("Open batch not found: %v", err)
	case errors.Is(err, domain.ErrUpstream):
		return fmt.Sprintf("Batch lookup failed: %v", err)
	default:
		return fmt.Sprintf("Batch lookup error: %v", err)
	}
}

func recordOutcome(outcome *models.WorkflowOutcome) {
	if outcome.Result.Succeeded {
		observability.IncrementCountryUpdate("success")
		return
	}
	observability.IncrementCountryUpdate("rejected")
}
