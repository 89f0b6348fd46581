package entities

// LookupOutcome classifies the result of one medication lookup.
type LookupOutcome string

const (
	OutcomeFound              LookupOutcome = "found"
	OutcomeNotFound           LookupOutcome = "not_found"
	OutcomeInputInvalid       LookupOutcome = "invalid_input"
	OutcomeNetworkUnavailable LookupOutcome = "network_unavailable"
	OutcomeNetworkTimeout     LookupOutcome = "network_timeout"
	OutcomeUpstreamHTTPError  LookupOutcome = "upstream_http_error"
	OutcomeFormatError        LookupOutcome = "format_error"
	OutcomeUnexpected         LookupOutcome = "unexpected"
)

// IsError reports whether the outcome is a failure rather than an answer.
func (o LookupOutcome) IsError() bool {
	return o != OutcomeFound && o != OutcomeNotFound
}

// LookupResult is the user-facing text of a lookup plus its outcome.
// Text is always set, failures included.
type LookupResult struct {
	Term       string        `json:"term"`
	Outcome    LookupOutcome `json:"outcome"`
	Text       string        `json:"text"`
	StatusCode int           `json:"status_code,omitempty"`
}
