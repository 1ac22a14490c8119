package domain

import "strconv"

// ResponseCode is a billing provider response code.
type ResponseCode int

// Provider response codes. Values match the store billing library.
const (
	ResponseCodeServiceTimeout      ResponseCode = -3
	ResponseCodeFeatureNotSupported ResponseCode = -2
	ResponseCodeServiceDisconnected ResponseCode = -1
	ResponseCodeOK                  ResponseCode = 0
	ResponseCodeUserCanceled        ResponseCode = 1
	ResponseCodeServiceUnavailable  ResponseCode = 2
	ResponseCodeBillingUnavailable  ResponseCode = 3
	ResponseCodeItemUnavailable     ResponseCode = 4
	ResponseCodeDeveloperError      ResponseCode = 5
	ResponseCodeError               ResponseCode = 6
	ResponseCodeItemAlreadyOwned    ResponseCode = 7
	ResponseCodeItemNotOwned        ResponseCode = 8
	ResponseCodeNetworkError        ResponseCode = 12
)

// ResponseCodeInfo contains detailed information about a response code
type ResponseCodeInfo struct {
	Code              ResponseCode
	Name              string
	IsRetriable       bool
	ErrorCode         ErrorCode
	AdditionalMessage string
}

var responseCodes = map[ResponseCode]ResponseCodeInfo{
	ResponseCodeOK: {
		Code: ResponseCodeOK,
		Name: "OK",
	},

	// Transient store failures
	ResponseCodeServiceTimeout: {
		Code:        ResponseCodeServiceTimeout,
		Name:        "SERVICE_TIMEOUT",
		IsRetriable: true,
		ErrorCode:   ErrorCodeStoreError,
	},
	ResponseCodeServiceDisconnected: {
		Code:        ResponseCodeServiceDisconnected,
		Name:        "SERVICE_DISCONNECTED",
		IsRetriable: true,
		ErrorCode:   ErrorCodeStoreError,
	},
	ResponseCodeServiceUnavailable: {
		Code:        ResponseCodeServiceUnavailable,
		Name:        "SERVICE_UNAVAILABLE",
		IsRetriable: true,
		ErrorCode:   ErrorCodeStoreError,
	},
	ResponseCodeError: {
		Code:        ResponseCodeError,
		Name:        "ERROR",
		IsRetriable: true,
		ErrorCode:   ErrorCodeStoreError,
	},
	ResponseCodeNetworkError: {
		Code:        ResponseCodeNetworkError,
		Name:        "NETWORK_ERROR",
		IsRetriable: true,
		ErrorCode:   ErrorCodeStoreNetworkError,
	},

	// Connection-terminal failures
	ResponseCodeFeatureNotSupported: {
		Code:      ResponseCodeFeatureNotSupported,
		Name:      "FEATURE_NOT_SUPPORTED",
		ErrorCode: ErrorCodeFeatureNotSupported,
	},
	ResponseCodeBillingUnavailable: {
		Code:              ResponseCodeBillingUnavailable,
		Name:              "BILLING_UNAVAILABLE",
		ErrorCode:         ErrorCodeBillingUnavailable,
		AdditionalMessage: "Billing service is not connected to any store account at the moment.",
	},

	// User and product failures
	ResponseCodeUserCanceled: {
		Code:      ResponseCodeUserCanceled,
		Name:      "USER_CANCELED",
		ErrorCode: ErrorCodePurchaseCanceled,
	},
	ResponseCodeItemUnavailable: {
		Code:      ResponseCodeItemUnavailable,
		Name:      "ITEM_UNAVAILABLE",
		ErrorCode: ErrorCodeProductUnavailable,
	},
	ResponseCodeDeveloperError: {
		Code:      ResponseCodeDeveloperError,
		Name:      "DEVELOPER_ERROR",
		ErrorCode: ErrorCodePurchasing,
		AdditionalMessage: "Please make sure that you are using the store account where purchases are allowed " +
			"and the application was correctly signed and properly set up for billing.",
	},
	ResponseCodeItemAlreadyOwned: {
		Code:      ResponseCodeItemAlreadyOwned,
		Name:      "ITEM_ALREADY_OWNED",
		ErrorCode: ErrorCodeProductAlreadyOwned,
	},
	ResponseCodeItemNotOwned: {
		Code:      ResponseCodeItemNotOwned,
		Name:      "ITEM_NOT_OWNED",
		ErrorCode: ErrorCodeProductNotOwned,
	},
}

// GetResponseCodeInfo returns information about a response code.
// Unknown codes are reported as non-retriable with ErrorCodeUnknown.
func GetResponseCodeInfo(code ResponseCode) ResponseCodeInfo {
	if info, ok := responseCodes[code]; ok {
		return info
	}
	return ResponseCodeInfo{
		Code:      code,
		Name:      strconv.Itoa(int(code)),
		ErrorCode: ErrorCodeUnknown,
	}
}

// String returns the provider name of the response code
func (c ResponseCode) String() string {
	return GetResponseCodeInfo(c).Name
}

// IsOK reports whether the code signals success
func (c ResponseCode) IsOK() bool {
	return c == ResponseCodeOK
}

// IsConnectionTerminal reports whether a setup failure with this code means billing
// can never become available on this device.
func (c ResponseCode) IsConnectionTerminal() bool {
	return c == ResponseCodeFeatureNotSupported || c == ResponseCodeBillingUnavailable
}

// IsRetriable reports whether a failed call with this code might succeed later
func (c ResponseCode) IsRetriable() bool {
	return GetResponseCodeInfo(c).IsRetriable
}
