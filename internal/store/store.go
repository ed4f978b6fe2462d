package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
)

// Store 命名集合的持久化接口：每个集合是一个 JSON 数组
//
// 约定：
//   - Load 永不返回错误：文件缺失、为空、损坏或不是数组时一律降级为空列表
//   - Save 返回 nil 表示成功；失败时目标文件保持原内容，由调用方决定是否回滚内存状态
//   - Ensure 在启动时创建目录与缺失的集合（内容为 []）
type Store interface {
	Load(name string) []json.RawMessage
	Save(name string, items any) error
	Ensure(names ...string) error
}

// 降级原因（日志与指标标签）
const (
	reasonUnreadable = "unreadable"
	reasonMalformed  = "malformed"
	reasonNotArray   = "not_array"
)

// renameFile 可在测试中替换，用于模拟写入临时文件后、替换前崩溃
var renameFile = os.Rename

// writeFileAtomic 先写同目录临时文件，再原子替换目标文件
//
// 任一步失败都会删除临时文件，目标文件保持旧内容。
func writeFileAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "tmp_*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err = write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("设置文件权限失败: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("刷盘失败: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}
	if err = renameFile(tmpPath, path); err != nil {
		return fmt.Errorf("替换目标文件失败: %w", err)
	}
	return nil
}

// WriteFile 原子写入任意文件（报表落盘复用同一流程）
func WriteFile(path string, data []byte) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// encodeArray 序列化为两空格缩进的 JSON 数组，保留非 ASCII 字符
func encodeArray(items any) ([]byte, error) {
	v := reflect.ValueOf(items)
	switch {
	case items == nil:
		items = []struct{}{}
	case v.Kind() == reflect.Slice && v.IsNil():
		items = []struct{}{}
	case v.Kind() != reflect.Slice && v.Kind() != reflect.Array:
		return nil, fmt.Errorf("集合必须是列表，实际类型 %T", items)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return nil, fmt.Errorf("序列化集合失败: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeArray 解析 JSON 数组；返回非空 reason 表示需要降级
func decodeArray(data []byte) ([]json.RawMessage, string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []json.RawMessage{}, "", nil
	}
	if trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return []json.RawMessage{}, reasonMalformed, fmt.Errorf("内容不是合法 JSON")
		}
		return []json.RawMessage{}, reasonNotArray, fmt.Errorf("顶层不是数组")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return []json.RawMessage{}, reasonMalformed, err
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, "", nil
}
