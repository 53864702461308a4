package model

// ErrorClass is the coarse classification of a transport error,
// surfaced to telemetry. The set is closed; codes without a mapping
// classify as ErrorClassUnknown.
type ErrorClass string

const (
	ErrorClassOK                 ErrorClass = "OK"
	ErrorClassCancelled          ErrorClass = "CANCELLED"
	ErrorClassUnknown            ErrorClass = "UNKNOWN"
	ErrorClassInvalidArgument    ErrorClass = "INVALID_ARGUMENT"
	ErrorClassDeadlineExceeded   ErrorClass = "DEADLINE_EXCEEDED"
	ErrorClassNotFound           ErrorClass = "NOT_FOUND"
	ErrorClassAlreadyExists      ErrorClass = "ALREADY_EXISTS"
	ErrorClassPermissionDenied   ErrorClass = "PERMISSION_DENIED"
	ErrorClassResourceExhausted  ErrorClass = "RESOURCE_EXHAUSTED"
	ErrorClassFailedPrecondition ErrorClass = "FAILED_PRECONDITION"
	ErrorClassAborted            ErrorClass = "ABORTED"
	ErrorClassOutOfRange         ErrorClass = "OUT_OF_RANGE"
	ErrorClassUnimplemented      ErrorClass = "UNIMPLEMENTED"
	ErrorClassInternal           ErrorClass = "INTERNAL"
	ErrorClassUnavailable        ErrorClass = "UNAVAILABLE"
	ErrorClassDataLoss           ErrorClass = "DATA_LOSS"
	ErrorClassUnauthenticated    ErrorClass = "UNAUTHENTICATED"
)

var errorClassByCode = map[int]ErrorClass{
	0:  ErrorClassOK,
	1:  ErrorClassCancelled,
	2:  ErrorClassUnknown,
	3:  ErrorClassInvalidArgument,
	4:  ErrorClassDeadlineExceeded,
	5:  ErrorClassNotFound,
	6:  ErrorClassAlreadyExists,
	7:  ErrorClassPermissionDenied,
	8:  ErrorClassResourceExhausted,
	9:  ErrorClassFailedPrecondition,
	10: ErrorClassAborted,
	11: ErrorClassOutOfRange,
	12: ErrorClassUnimplemented,
	13: ErrorClassInternal,
	14: ErrorClassUnavailable,
	15: ErrorClassDataLoss,
	16: ErrorClassUnauthenticated,
}

// ClassifyCode maps a numeric transport error code to its class.
// Total: every input maps to exactly one class.
func ClassifyCode(code int) ErrorClass {
	if c, ok := errorClassByCode[code]; ok {
		return c
	}
	return ErrorClassUnknown
}
