package schema

import (
	"errors"
	"fmt"
	"strings"
)

// 校验错误码
const (
	ErrTypeMismatch = "type_mismatch"
	ErrPrecision    = "precision_exceeded"
	ErrEmptyPayload = "empty_payload"
	ErrEmptyName    = "empty_name"
	ErrDuplicate    = "duplicate_name"
	ErrBadType      = "unknown_type"
)

type FieldError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func ferr(code, field, msg string) FieldError {
	return FieldError{Code: code, Field: field, Message: msg}
}

// ValidationErrors 聚合的逐字段错误列表；一次提交里所有问题一起上报
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ErrUnknownFieldType 模板引用了 registry 之外的类型，属于内部不变量被破坏
var ErrUnknownFieldType = errors.New("unknown field type")

func unknownType(field, typ string) error {
	return fmt.Errorf("%w: field '%s' declared as '%s'", ErrUnknownFieldType, field, typ)
}
