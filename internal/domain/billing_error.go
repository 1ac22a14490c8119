package domain

import "fmt"

// BillingResult is the outcome of a single provider call.
type BillingResult struct {
	ResponseCode ResponseCode
	DebugMessage string
}

// IsOK reports whether the provider call succeeded
func (r BillingResult) IsOK() bool {
	return r.ResponseCode.IsOK()
}

// Description renders the result for error messages
func (r BillingResult) Description() string {
	if r.DebugMessage == "" {
		return fmt.Sprintf("It is a proxy of the store billing error: %s", r.ResponseCode)
	}
	return fmt.Sprintf("It is a proxy of the store billing error: %s (%s)", r.ResponseCode, r.DebugMessage)
}

// BillingError is a failed provider call as seen by the caller of a billing operation.
type BillingError struct {
	ResponseCode ResponseCode
	Message      string
}

// NewBillingError creates a billing error
func NewBillingError(code ResponseCode, message string) *BillingError {
	return &BillingError{ResponseCode: code, Message: message}
}

// Error implements the error interface
func (e *BillingError) Error() string {
	return fmt.Sprintf("billing error %s: %s", e.ResponseCode, e.Message)
}

// ToDomainError maps the provider failure onto the domain error taxonomy
func (e *BillingError) ToDomainError() *DomainError {
	info := GetResponseCodeInfo(e.ResponseCode)
	message := e.Message
	if info.AdditionalMessage != "" {
		message = message + " " + info.AdditionalMessage
	}
	code := info.ErrorCode
	if code == "" {
		code = ErrorCodeUnknown
	}
	return WrapError(code, message, e).
		WithDetail("response_code", int(e.ResponseCode)).
		WithDetail("retriable", info.IsRetriable)
}
