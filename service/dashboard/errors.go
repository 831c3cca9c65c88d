/*
 * @module service/dashboard/errors
 * @description 看板配置错误类型定义，区分未找到、非法操作、存储失败和校验失败
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/dashboard_requirements.md
 * @stateFlow 操作失败 -> 错误分类 -> 控制器映射为HTTP状态
 * @rules NotFound和InvalidOperation同步拒绝；StorageFailure可重试；ValidationFailure本地恢复不上抛
 * @dependencies errors
 * @refs api/controllers/dashboard_controller.go
 */

package dashboard

import "errors"

// ErrorKind 配置错误类别
type ErrorKind string

const (
	ErrKindNotFound         ErrorKind = "not_found"         // 引用的布局或卡片不存在
	ErrKindInvalidOperation ErrorKind = "invalid_operation" // 操作会破坏配置不变量
	ErrKindStorageFailure   ErrorKind = "storage_failure"   // 底层持久化读写失败
	ErrKindValidation       ErrorKind = "validation_failure" // 加载的文档格式非法
)

// ConfigError 看板配置错误
type ConfigError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewNotFoundError 创建未找到错误
func NewNotFoundError(message string) *ConfigError {
	return &ConfigError{Kind: ErrKindNotFound, Message: message}
}

// NewInvalidOperationError 创建非法操作错误
func NewInvalidOperationError(message string) *ConfigError {
	return &ConfigError{Kind: ErrKindInvalidOperation, Message: message}
}

// NewStorageError 创建存储失败错误
func NewStorageError(message string, err error) *ConfigError {
	return &ConfigError{Kind: ErrKindStorageFailure, Message: message, Err: err}
}

// NewValidationError 创建校验失败错误
func NewValidationError(message string) *ConfigError {
	return &ConfigError{Kind: ErrKindValidation, Message: message}
}

// KindOf 返回错误的类别，非配置错误归为存储失败
func KindOf(err error) ErrorKind {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind
	}
	return ErrKindStorageFailure
}

// IsNotFound 判断是否为未找到错误
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsInvalidOperation 判断是否为非法操作错误
func IsInvalidOperation(err error) bool {
	return KindOf(err) == ErrKindInvalidOperation
}

// IsStorageFailure 判断是否为存储失败错误
func IsStorageFailure(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind == ErrKindStorageFailure
	}
	return false
}
