package errors

import "fmt"

// ErrorCode 에러 코드 정의
type ErrorCode string

const (
	// Business Errors
	ErrCodeAftersaleNotFound    ErrorCode = "AFTERSALE_NOT_FOUND"
	ErrCodeServiceOrderNotFound ErrorCode = "SERVICE_ORDER_NOT_FOUND"
	ErrCodeProviderNotFound     ErrorCode = "PROVIDER_NOT_FOUND"
	ErrCodeDraftNotFound        ErrorCode = "DRAFT_NOT_FOUND"
	ErrCodeStateInvalid         ErrorCode = "STATE_INVALID"
	ErrCodeUnsupportedType      ErrorCode = "UNSUPPORTED_TYPE"
	ErrCodeInvalidRequest       ErrorCode = "INVALID_REQUEST"
	ErrCodeDuplicateRequest     ErrorCode = "DUPLICATE_REQUEST"

	// Technical Errors
	ErrCodeExternalService    ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeDatabaseError      ErrorCode = "DATABASE_ERROR"
	ErrCodeNetworkError       ErrorCode = "NETWORK_ERROR"
	ErrCodeTimeoutError       ErrorCode = "TIMEOUT_ERROR"
	ErrCodeSerializationError ErrorCode = "SERIALIZATION_ERROR"
	ErrCodeUnknownError       ErrorCode = "UNKNOWN_ERROR"
)

// DomainError 도메인 에러 구조체
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// New 새로운 도메인 에러 생성
func New(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Newf 포맷 메시지로 도메인 에러 생성
func Newf(code ErrorCode, format string, args ...interface{}) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap 기존 에러를 래핑한 도메인 에러 생성
func Wrap(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf 에러에서 도메인 에러 코드 추출 (도메인 에러가 아니면 UNKNOWN_ERROR)
func CodeOf(err error) ErrorCode {
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr.Code
	}
	return ErrCodeUnknownError
}

// HasCode 에러가 특정 코드의 도메인 에러인지 판단
func HasCode(err error, code ErrorCode) bool {
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr.Code == code
	}
	return false
}

// IsRetryable 재시도 가능한 에러인지 판단
func IsRetryable(err error) bool {
	if domainErr, ok := err.(*DomainError); ok {
		switch domainErr.Code {
		case ErrCodeDatabaseError, ErrCodeNetworkError, ErrCodeTimeoutError:
			return true
		}
	}
	return false
}

// IsBusinessError 비즈니스 에러인지 판단 (재시도 불필요)
func IsBusinessError(err error) bool {
	if domainErr, ok := err.(*DomainError); ok {
		switch domainErr.Code {
		case ErrCodeAftersaleNotFound, ErrCodeServiceOrderNotFound, ErrCodeProviderNotFound,
			ErrCodeDraftNotFound, ErrCodeStateInvalid, ErrCodeUnsupportedType,
			ErrCodeInvalidRequest, ErrCodeDuplicateRequest:
			return true
		}
	}
	return false
}
