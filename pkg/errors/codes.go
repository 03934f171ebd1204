package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeDatabaseError      ErrorCode = "COMMON_010"
	ErrCodeCacheError         ErrorCode = "COMMON_011"
	ErrCodeNotImplemented     ErrorCode = "COMMON_012"

	// CodeOK is the zero-code reported by GetCode for nil errors.
	CodeOK      ErrorCode = "OK"
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Reaction engine error codes
const (
	// ErrCodeReactionSchema: a required column is missing from the input table.
	ErrCodeReactionSchema ErrorCode = "RXN_001"
	// ErrCodeReactionTableEmpty: the table is empty and emptiness is disallowed.
	ErrCodeReactionTableEmpty ErrorCode = "RXN_002"
	// ErrCodeReactionUnknownMethod: combination method is not "and" or "or".
	ErrCodeReactionUnknownMethod ErrorCode = "RXN_003"
	ErrCodeReactionNotFound      ErrorCode = "RXN_004"
)

// Dataset / ingestion error codes
const (
	ErrCodeDatasetNotFound    ErrorCode = "DATA_001"
	ErrCodeDatasetParseFailed ErrorCode = "DATA_002"
	ErrCodeDatasetWriteFailed ErrorCode = "DATA_003"
)

// Messaging error codes
const (
	ErrCodePublishFailed ErrorCode = "MSG_001"
)

// httpStatusByCode maps error codes to the HTTP status returned by the API
// layer. Codes absent from the map report 500.
var httpStatusByCode = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeReactionSchema:        http.StatusUnprocessableEntity,
	ErrCodeReactionTableEmpty:    http.StatusUnprocessableEntity,
	ErrCodeReactionUnknownMethod: http.StatusBadRequest,
	ErrCodeReactionNotFound:      http.StatusNotFound,

	ErrCodeDatasetNotFound:    http.StatusNotFound,
	ErrCodeDatasetParseFailed: http.StatusUnprocessableEntity,
	ErrCodeDatasetWriteFailed: http.StatusInternalServerError,

	ErrCodePublishFailed: http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status code associated with c.
func (c ErrorCode) HTTPStatus() int {
	if status, ok := httpStatusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}
