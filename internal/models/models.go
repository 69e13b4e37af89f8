package models

// Credentials authenticate Partner Portal SOAP calls.
type Credentials struct {
	ChannelName string
	Username    string
	Password    string
}

// UpdateRequest is one operator-initiated country change.
type UpdateRequest struct {
	MerchantID  string
	TerminalID  string
	CountryCode string
}

// UpdateResult is the parsed Create_Update_MerchantInfo reply.
type UpdateResult struct {
	ResponseCode string `json:"response_code"`
	ResponseText string `json:"response_text"`
	Parsed       bool   `json:"-"` // both response elements were found
	Succeeded    bool   `json:"is_success"`
}

// BatchRecord is a row of the transaction export.
type BatchRecord struct {
	EMID           string `json:"emid"`
	TerminalID     string `json:"terminal_id"`
	Identification string `json:"identification"`
}

// CloseResult is the close-batch API reply.
type CloseResult struct {
	ResponseCode string `json:"ResponseCode"`
	ResponseText string `json:"ResponseText"`
	Succeeded    bool   `json:"-"`
}

// WorkflowOutcome is what a country update reports back to the operator.
type WorkflowOutcome struct {
	Result              UpdateResult
	BatchCloseAttempted bool
	BatchClosed         bool
	BatchCloseError     string
	Retried             bool
}
