package errors

import (
	"errors"
	"fmt"
)

// Kind 业务错误分类，handler 层据此映射 HTTP 状态码
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindInvalidInput    Kind = "invalid_input"
	KindConflict        Kind = "conflict"
	KindInvalidState    Kind = "invalid_state"
	KindUnavailable     Kind = "unavailable"
	KindInternal        Kind = "internal"
)

// AppError 带稳定分类与业务码的错误
type AppError struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

// New 创建一个业务错误（通常作为包级哨兵变量）
func New(kind Kind, code int, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is 同 Kind 且同 Code 视为同一错误，便于 errors.Is 匹配哨兵
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Wrap 在哨兵错误上附加底层原因
func (e *AppError) Wrap(err error) *AppError {
	return &AppError{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: err}
}

// KindOf 提取错误分类；非 AppError 一律视为 Internal
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ── 通用哨兵 ──

var (
	// ErrOptimisticLock 条件更新未命中：记录已被其他操作修改
	ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

	ErrUnauthenticated = New(KindUnauthenticated, 10002, "未认证")
	ErrForbidden       = New(KindForbidden, 10003, "无权限访问")
	ErrUnavailable     = New(KindUnavailable, 10006, "存储暂时不可用，请稍后重试")
)
