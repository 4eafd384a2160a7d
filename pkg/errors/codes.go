package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeBadRequest      ErrorCode = "COMMON_002"
	ErrCodeNotFound        ErrorCode = "COMMON_005"
	ErrCodeConflict        ErrorCode = "COMMON_006"
	ErrCodeTimeout         ErrorCode = "COMMON_009"
	ErrCodeValidation      ErrorCode = "COMMON_010"
	ErrCodeSerialization   ErrorCode = "COMMON_011"
	ErrCodeExternalService ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled ErrorCode = "COMMON_015"
)

// Aliases used by the convenience constructors.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// Model Mapping Error Codes
const (
	ErrCodeModelInvalid         ErrorCode = "MAP_001"
	ErrCodePassFailed           ErrorCode = "MAP_002"
	ErrCodeMappingParamsInvalid ErrorCode = "MAP_003"
	ErrCodeDiagnosticsFailed    ErrorCode = "MAP_004"
	ErrCodeModelLoadFailed      ErrorCode = "MAP_005"
	ErrCodeEntityNotFound       ErrorCode = "MAP_006"
)

// Infrastructure Error Codes
const (
	ErrCodeStorageError ErrorCode = "INFRA_001"
	ErrCodeMetricsError ErrorCode = "INFRA_002"
	ErrCodeConfigError  ErrorCode = "INFRA_003"
)

// ErrorCodeExitStatus maps ErrorCodes to process exit statuses used by the
// metmap binary.  Codes absent from the map exit with status 1.
var ErrorCodeExitStatus = map[ErrorCode]int{
	ErrCodeInternal:        1,
	ErrCodeBadRequest:      2,
	ErrCodeValidation:      2,
	ErrCodeNotFound:        3,
	ErrCodeConflict:        1,
	ErrCodeTimeout:         4,
	ErrCodeSerialization:   1,
	ErrCodeExternalService: 5,
	ErrCodeFeatureDisabled: 2,

	ErrCodeModelInvalid:         3,
	ErrCodePassFailed:           6,
	ErrCodeMappingParamsInvalid: 2,
	ErrCodeDiagnosticsFailed:    7,
	ErrCodeModelLoadFailed:      3,
	ErrCodeEntityNotFound:       3,

	ErrCodeStorageError: 5,
	ErrCodeMetricsError: 7,
	ErrCodeConfigError:  2,
}

// ExitStatus returns the process exit status for code.
func ExitStatus(code ErrorCode) int {
	if code == CodeOK {
		return 0
	}
	if s, ok := ErrorCodeExitStatus[code]; ok {
		return s
	}
	return 1
}

// Module returns the module prefix of code ("MAP", "INFRA", "COMMON").
func (c ErrorCode) Module() string {
	s := string(c)
	if i := strings.IndexByte(s, '_'); i > 0 {
		return s[:i]
	}
	return s
}

//Personal.AI order the ending
