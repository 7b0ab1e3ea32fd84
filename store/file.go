package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"office-navigator/logger"
	"office-navigator/model"
)

// FileStore 以 JSON 文件保存目录 (offices.json)
type FileStore struct {
	Path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load 读取目录文件, 文件不存在时返回 ErrNotFound
func (s *FileStore) Load(ctx context.Context) (model.Directory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dir model.Directory
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return dir, ErrNotFound
	}
	if err != nil {
		return dir, fmt.Errorf("read %s: %w", s.Path, err)
	}
	if err := json.Unmarshal(b, &dir); err != nil {
		return dir, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return dir, ctx.Err()
}

// Save 以两个空格缩进覆盖写入
func (s *FileStore) Save(ctx context.Context, dir model.Directory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir.Offices == nil {
		dir.Offices = []model.Office{}
	}
	b, err := json.MarshalIndent(dir, "", "  ")
	if err != nil {
		return fmt.Errorf("encode directory: %w", err)
	}
	b = append(b, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.Path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	logger.L().Info("directory_saved", "path", s.Path, "offices", len(dir.Offices))
	return nil
}
