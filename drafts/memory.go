package drafts

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// MemoryStore 把草稿保存在进程内存中，未配置 Redis 时使用。
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]Draft
	nowFn func() time.Time
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Draft), nowFn: time.Now}
}

func (s *MemoryStore) Create(ctx context.Context, d Draft) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	d, err := prepare(d, s.nowFn())
	if err != nil {
		return Draft{}, err
	}
	d.Data = append(json.RawMessage(nil), d.Data...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[d.ID] = d
	return d, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byID[id]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return d, nil
}

// List 按更新时间倒序返回全部草稿。
func (s *MemoryStore) List(ctx context.Context) ([]Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]Draft, 0, len(s.byID))
	for _, d := range s.byID {
		out = append(out, d)
	}
	s.mu.RUnlock()
	sortDrafts(out)
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, p Patch) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.byID[id]
	if !ok {
		return Draft{}, ErrNotFound
	}
	d, err := apply(d, p, s.nowFn())
	if err != nil {
		return Draft{}, err
	}
	s.byID[id] = d
	return d, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func sortDrafts(ds []Draft) {
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].UpdatedAt.Equal(ds[j].UpdatedAt) {
			return ds[i].ID < ds[j].ID
		}
		return ds[i].UpdatedAt.After(ds[j].UpdatedAt)
	})
}
