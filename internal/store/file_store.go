package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/irvinmora/sistema-limpieza/pkg/metrics"
)

// FileStore 以 <dir>/<name>.json 保存集合
type FileStore struct {
	dir     string
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewFileStore 创建文件存储；m 可为 nil
func NewFileStore(dir string, logger *zap.Logger, m *metrics.Metrics) *FileStore {
	return &FileStore{dir: dir, logger: logger, metrics: m}
}

// Path 返回集合对应的文件路径
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Ensure 创建数据目录，并把缺失的集合初始化为 []
func (s *FileStore) Ensure(names ...string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := os.Stat(s.Path(name)); errors.Is(err, fs.ErrNotExist) {
			if err := s.writeEmpty(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load 读取集合，任何异常均降级为空列表
func (s *FileStore) Load(name string) []json.RawMessage {
	path := s.Path(name)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// 创建空文件，后续读取保持稳定
			if werr := s.writeEmpty(name); werr != nil {
				s.logger.Warn("初始化集合文件失败", zap.String("collection", name), zap.Error(werr))
			}
			return []json.RawMessage{}
		}
		s.fallback(name, reasonUnreadable, err)
		return []json.RawMessage{}
	}

	items, reason, err := decodeArray(data)
	if reason != "" {
		s.fallback(name, reason, err)
	}
	return items
}

// Save 原子写入集合
func (s *FileStore) Save(name string, items any) error {
	err := s.save(name, items)
	s.metrics.Saved(name, err)
	if err != nil {
		s.logger.Error("保存集合失败", zap.String("collection", name), zap.Error(err))
	}
	return err
}

func (s *FileStore) save(name string, items any) error {
	data, err := encodeArray(items)
	if err != nil {
		return err
	}
	return WriteFile(s.Path(name), data)
}

func (s *FileStore) writeEmpty(name string) error {
	return s.save(name, []struct{}{})
}

func (s *FileStore) fallback(name, reason string, err error) {
	s.metrics.LoadFallback(name, reason)
	s.logger.Warn("集合内容无效，按空列表处理",
		zap.String("collection", name),
		zap.String("reason", reason),
		zap.Error(err),
	)
}
