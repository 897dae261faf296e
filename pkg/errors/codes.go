package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"
	ErrCodeUnknown            ErrorCode = "COMMON_016"

	// CodeOK is the sentinel success code used by GetCode for nil errors.
	CodeOK ErrorCode = "OK"
)

// Profile Module Error Codes
const (
	ErrCodeProfileNotFound      ErrorCode = "PRF_001"
	ErrCodeProfileInvalid       ErrorCode = "PRF_002"
	ErrCodeFinancialsNotFound   ErrorCode = "PRF_003"
	ErrCodeDocumentTypeInvalid  ErrorCode = "PRF_004"
	ErrCodeBenchmarkUnavailable ErrorCode = "PRF_005"
)

// Diagnostics Module Error Codes
const (
	ErrCodeRunNotFound          ErrorCode = "DIA_001"
	ErrCodeRunAlreadyExists     ErrorCode = "DIA_002"
	ErrCodeDimensionUnknown     ErrorCode = "DIA_003"
	ErrCodeWeightTableInvalid   ErrorCode = "DIA_004"
	ErrCodeTemplateTableInvalid ErrorCode = "DIA_005"
	ErrCodeRunPersistFailed     ErrorCode = "DIA_006"
)

// Matching Module Error Codes
const (
	ErrCodeMatchRuleInvalid ErrorCode = "MATCH_001"
)

// Reporting / Indexing Error Codes
const (
	ErrCodeReportArchiveFailed ErrorCode = "RPT_001"
	ErrCodeRunIndexFailed      ErrorCode = "RPT_002"
)

// Messaging Error Codes
const (
	ErrCodePublishFailed ErrorCode = "MSG_001"
	ErrCodeConsumeFailed ErrorCode = "MSG_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,
	ErrCodeUnknown:            http.StatusInternalServerError,

	ErrCodeProfileNotFound:      http.StatusNotFound,
	ErrCodeProfileInvalid:       http.StatusUnprocessableEntity,
	ErrCodeFinancialsNotFound:   http.StatusNotFound,
	ErrCodeDocumentTypeInvalid:  http.StatusBadRequest,
	ErrCodeBenchmarkUnavailable: http.StatusServiceUnavailable,

	ErrCodeRunNotFound:          http.StatusNotFound,
	ErrCodeRunAlreadyExists:     http.StatusConflict,
	ErrCodeDimensionUnknown:     http.StatusBadRequest,
	ErrCodeWeightTableInvalid:   http.StatusInternalServerError,
	ErrCodeTemplateTableInvalid: http.StatusInternalServerError,
	ErrCodeRunPersistFailed:     http.StatusInternalServerError,

	ErrCodeMatchRuleInvalid: http.StatusInternalServerError,

	ErrCodeReportArchiveFailed: http.StatusInternalServerError,
	ErrCodeRunIndexFailed:      http.StatusInternalServerError,

	ErrCodePublishFailed: http.StatusInternalServerError,
	ErrCodeConsumeFailed: http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",
	ErrCodeUnknown:            "unknown error",

	ErrCodeProfileNotFound:      "business profile not found",
	ErrCodeProfileInvalid:       "business profile failed validation",
	ErrCodeFinancialsNotFound:   "financial snapshot not found",
	ErrCodeDocumentTypeInvalid:  "unsupported document type",
	ErrCodeBenchmarkUnavailable: "sector benchmark unavailable",

	ErrCodeRunNotFound:          "diagnostics run not found",
	ErrCodeRunAlreadyExists:     "diagnostics run already exists for input hash",
	ErrCodeDimensionUnknown:     "unknown scoring dimension",
	ErrCodeWeightTableInvalid:   "scoring weight table invalid",
	ErrCodeTemplateTableInvalid: "remediation template table invalid",
	ErrCodeRunPersistFailed:     "failed to persist diagnostics run",

	ErrCodeMatchRuleInvalid: "matching rule invalid",

	ErrCodeReportArchiveFailed: "failed to archive diagnostics report",
	ErrCodeRunIndexFailed:      "failed to index diagnostics run",

	ErrCodePublishFailed: "failed to publish message",
	ErrCodeConsumeFailed: "failed to consume message",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
