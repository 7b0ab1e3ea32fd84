// Package store 办公室目录与后台草稿的持久化
package store

import (
	"context"
	"errors"
	"sync"

	"office-navigator/model"
)

// ErrNotFound 目录或草稿不存在
var ErrNotFound = errors.New("store: not found")

// DirectoryStore 已发布目录的读写
type DirectoryStore interface {
	Load(ctx context.Context) (model.Directory, error)
	Save(ctx context.Context, dir model.Directory) error
}

// MemoryStore 内存中的目录, 用于测试和无持久化运行
type MemoryStore struct {
	mu  sync.RWMutex
	dir *model.Directory
}

// NewMemoryStore 可传入初始目录, 传 nil 表示空
func NewMemoryStore(dir *model.Directory) *MemoryStore {
	s := &MemoryStore{}
	if dir != nil {
		c := dir.Clone()
		s.dir = &c
	}
	return s
}

func (s *MemoryStore) Load(ctx context.Context) (model.Directory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dir == nil {
		return model.Directory{}, ErrNotFound
	}
	return s.dir.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, dir model.Directory) error {
	c := dir.Clone()
	s.mu.Lock()
	s.dir = &c
	s.mu.Unlock()
	return nil
}
