package errors

import "errors"

// ErrPersistFailed 持久化失败：文件未写入，内存状态保持不变
var ErrPersistFailed = errors.New("数据保存失败，请稍后重试")

// ErrInvalidDate 日期格式无效（期望 YYYY-MM-DD）
var ErrInvalidDate = errors.New("日期格式无效，应为 YYYY-MM-DD")
