package errno

import (
	"errors"
	"fmt"
)

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var v *ValidationError
	if errors.As(err, &v) {
		return v.Code, v.Error()
	}
	var p *ProviderError
	if errors.As(err, &p) {
		return p.Code, p.Error()
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	default:
		return InternalError.Code, err.Error()
	}
}

// ValidationError 本地预检错误: 指明出错字段与违反的规则, 不会到达 Provider
type ValidationError struct {
	Errno
	Field  string // 出错字段, 例如 "data.name"
	Pos    int    // 批量签名中的下标, 单笔为 -1
	Detail string // 具体规则说明
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: field %q", msg, e.Field)
	}
	if e.Pos >= 0 {
		msg = fmt.Sprintf("%s (batch index %d)", msg, e.Pos)
	}
	if e.Detail != "" {
		msg = msg + ": " + e.Detail
	}
	return msg
}

// Validation 构造一个指向具体字段的校验错误
func Validation(kind Errno, field, detail string) *ValidationError {
	return &ValidationError{Errno: kind, Field: field, Pos: -1, Detail: detail}
}

// AtIndex 标记批量校验错误发生的位置
func (e *ValidationError) AtIndex(i int) *ValidationError {
	e.Pos = i
	return e
}

// ProviderError Provider 侧错误, 原样透传 (拒签/锁定/版本不支持等), 客户端不解释也不重试
type ProviderError struct {
	Errno
	Cause error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Provider 包装一个来自 Provider 的错误
func Provider(cause error) *ProviderError {
	return &ProviderError{Errno: ErrProvider, Cause: cause}
}

// IsKind 判断 err 是否属于某个错误码 (忽略字段/位置信息)
func IsKind(err error, kind Errno) bool {
	code, _ := Decode(err)
	return code == kind.Code
}

// Common Errors
var (
	OK            = Errno{Code: 0, Message: "Success"}
	InternalError = Errno{Code: 10001, Message: "Internal error"}
	ErrBind       = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrNotReady   = Errno{Code: 10003, Message: "Keeper is not ready yet"}
)

// Validation Errors (20000+): 本地预检, 不会发起 Provider 调用
var (
	ErrMissingField      = Errno{Code: 20001, Message: "Required field missing"}
	ErrOutOfRange        = Errno{Code: 20002, Message: "Value out of range"}
	ErrWrongLength       = Errno{Code: 20003, Message: "Wrong byte length"}
	ErrWrongType         = Errno{Code: 20004, Message: "Wrong value type"}
	ErrEmptySequence     = Errno{Code: 20005, Message: "Sequence must not be empty"}
	ErrAmbiguousAmount   = Errno{Code: 20006, Message: "Amount has both coins and tokens"}
	ErrMissingAssetID    = Errno{Code: 20007, Message: "Amount is missing assetId"}
	ErrUnknownTag        = Errno{Code: 20008, Message: "Unknown transaction type"}
	ErrTagNotBatchable   = Errno{Code: 20009, Message: "Transaction type cannot be signed in a package"}
	ErrBatchTooLarge     = Errno{Code: 20010, Message: "Package exceeds the transaction limit"}
	ErrMalformedResponse = Errno{Code: 20011, Message: "Malformed provider response"}
)

// Provider Errors (30000+)
var (
	ErrProvider = Errno{Code: 30001, Message: "Provider rejected the request"}
)
