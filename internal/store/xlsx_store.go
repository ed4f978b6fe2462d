package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/irvinmora/sistema-limpieza/pkg/metrics"
)

// XLSXStore 电子表格后端：一个工作簿，每个集合一个 Sheet
//
// 表格结构：
//   - 第 1 行为字段名（按字母序）；含非字符串值的列名带 jsonColumnSuffix
//   - 之后每行一个元素；普通列原样写入字符串，JSON 列写入紧凑 JSON 文本
//   - 空单元格视为字段缺失
//
// 每次 Save 重建整个工作簿，再经临时文件原子替换。
type XLSXStore struct {
	path    string
	logger  *zap.Logger
	metrics *metrics.Metrics
	mu      sync.Mutex
}

// NewXLSXStore 创建电子表格存储；m 可为 nil
func NewXLSXStore(path string, logger *zap.Logger, m *metrics.Metrics) *XLSXStore {
	return &XLSXStore{path: path, logger: logger, metrics: m}
}

// Ensure 工作簿不存在时创建，并补齐缺失的 Sheet
func (s *XLSXStore) Ensure(names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheets, err := s.readSheets()
	if err != nil {
		return err
	}
	changed := false
	for _, name := range names {
		if _, ok := sheets[name]; !ok {
			sheets[name] = nil
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.writeSheets(sheets)
}

// Load 读取集合；工作簿或 Sheet 缺失、内容无法解析时返回空列表
func (s *XLSXStore) Load(name string) []json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.fallback(name, reasonUnreadable, err)
		}
		return []json.RawMessage{}
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(name); idx < 0 {
		return []json.RawMessage{}
	}
	rows, err := f.GetRows(name)
	if err != nil {
		s.fallback(name, reasonUnreadable, err)
		return []json.RawMessage{}
	}
	return rowsToItems(rows)
}

// Save 将集合写入对应 Sheet，保留其他 Sheet
func (s *XLSXStore) Save(name string, items any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.save(name, items)
	s.metrics.Saved(name, err)
	if err != nil {
		s.logger.Error("保存工作簿失败", zap.String("collection", name), zap.Error(err))
	}
	return err
}

func (s *XLSXStore) save(name string, items any) error {
	data, err := encodeArray(items)
	if err != nil {
		return err
	}
	var objects []map[string]json.RawMessage
	if err := json.Unmarshal(data, &objects); err != nil {
		return fmt.Errorf("集合元素必须是对象: %w", err)
	}

	sheets, err := s.readSheets()
	if err != nil {
		return err
	}
	sheets[name] = itemsToRows(objects)
	return s.writeSheets(sheets)
}

// readSheets 读取现有工作簿全部 Sheet；文件不存在时返回空映射
func (s *XLSXStore) readSheets() (map[string][][]string, error) {
	sheets := make(map[string][][]string)

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return sheets, nil
		}
		return nil, fmt.Errorf("打开工作簿失败: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("读取 Sheet %s 失败: %w", sheet, err)
		}
		sheets[sheet] = rows
	}
	return sheets, nil
}

func (s *XLSXStore) writeSheets(sheets map[string][][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	names := make([]string, 0, len(sheets))
	for name := range sheets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("创建 Sheet %s 失败: %w", name, err)
		}
		for i, row := range sheets[name] {
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				return fmt.Errorf("写入 Sheet %s 失败: %w", name, err)
			}
		}
	}
	if _, ok := sheets["Sheet1"]; !ok && len(names) > 0 {
		f.DeleteSheet("Sheet1")
	}

	return writeFileAtomic(s.path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
}

func (s *XLSXStore) fallback(name, reason string, err error) {
	s.metrics.LoadFallback(name, reason)
	s.logger.Warn("工作簿内容无效，按空列表处理",
		zap.String("collection", name),
		zap.String("reason", reason),
		zap.Error(err),
	)
}

// ── 行 ⇄ 对象 转换 ──

// jsonColumnSuffix 标记按 JSON 编码的列（如 estudiantes@json）
const jsonColumnSuffix = "@json"

func itemsToRows(objects []map[string]json.RawMessage) [][]string {
	// 列名 → 是否含非字符串值
	columns := make(map[string]bool)
	for _, obj := range objects {
		for k, raw := range obj {
			if !isJSONString(raw) && string(raw) != "null" {
				columns[k] = true
			} else if _, ok := columns[k]; !ok {
				columns[k] = false
			}
		}
	}
	if len(columns) == 0 {
		return nil
	}
	keys := make([]string, 0, len(columns))
	for k := range columns {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	header := make([]string, len(keys))
	for i, k := range keys {
		header[i] = k
		if columns[k] {
			header[i] += jsonColumnSuffix
		}
	}

	rows := make([][]string, 0, len(objects)+1)
	rows = append(rows, header)
	for _, obj := range objects {
		row := make([]string, len(keys))
		for i, k := range keys {
			raw, ok := obj[k]
			if !ok || string(raw) == "null" {
				continue
			}
			if columns[k] {
				var buf bytes.Buffer
				if err := json.Compact(&buf, raw); err == nil {
					row[i] = buf.String()
				} else {
					row[i] = string(raw)
				}
				continue
			}
			var str string
			_ = json.Unmarshal(raw, &str)
			row[i] = str
		}
		rows = append(rows, row)
	}
	return rows
}

func rowsToItems(rows [][]string) []json.RawMessage {
	items := []json.RawMessage{}
	if len(rows) < 2 {
		return items
	}
	header := rows[0]
	for _, row := range rows[1:] {
		obj := make(map[string]json.RawMessage, len(header))
		for i, col := range header {
			if col == "" || i >= len(row) || row[i] == "" {
				continue
			}
			key, isJSON := strings.CutSuffix(col, jsonColumnSuffix)
			obj[key] = cellValue(row[i], isJSON)
		}
		if len(obj) == 0 {
			continue
		}
		raw, err := json.Marshal(obj)
		if err != nil {
			continue
		}
		items = append(items, raw)
	}
	return items
}

// cellValue 普通列一律按字符串还原；JSON 列按 JSON 还原，非法内容退回字符串
func cellValue(v string, isJSON bool) json.RawMessage {
	if isJSON {
		if t := strings.TrimSpace(v); json.Valid([]byte(t)) {
			return json.RawMessage(t)
		}
	}
	raw, _ := json.Marshal(v)
	return raw
}

func isJSONString(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '"'
}
