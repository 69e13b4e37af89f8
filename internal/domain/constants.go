package domain

// Charge Anywhere protocol values.
const (
	// Partner Portal Create_Update_MerchantInfo
	ResponseCodeSuccess   = "1"
	ResponseCodeOpenBatch = "175"

	// Close-batch API
	CloseBatchApproved    = "000"
	CloseBatchTransaction = "CloseBatch"

	// Sentinel codes produced locally by the SOAP response parser.
	ResponseCodeUnknown    = "Unknown"
	ResponseCodeParseError = "Parse Error"

	// Export API
	ExportFields     = "EMID,TerminalId,Identification"
	ExportDateLayout = "01/02/2006"
	ExportTimeZone   = "America/New_York"

	// Batch recovery outcomes
	RecoveryNotNeeded  = "not_needed"
	RecoveryLocateFail = "locate_failed"
	RecoveryCloseFail  = "close_failed"
	RecoveryRetryFail  = "retry_failed"
	RecoveryCompleted  = "completed"
)
