package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound 草稿不存在或已过期。
	ErrNotFound = errors.New("draft not found")

	// ErrInvalidInput 名称为空或数据不是 JSON 对象。
	ErrInvalidInput = errors.New("invalid draft")
)

// Draft 是一份已保存的简历草稿，Data 保存原始简历 JSON，导出时再做规范化。
type Draft struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Template  string          `json:"template,omitempty"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Patch 描述一次更新，nil 字段保持不变。
type Patch struct {
	Name     *string
	Template *string
	Data     json.RawMessage
}

// Store 草稿存储，实现需要支持并发调用。
type Store interface {
	Create(ctx context.Context, d Draft) (Draft, error)
	Get(ctx context.Context, id string) (Draft, error)
	List(ctx context.Context) ([]Draft, error)
	Update(ctx context.Context, id string, p Patch) (Draft, error)
	Delete(ctx context.Context, id string) error
}

// prepare 校验新草稿并补全 ID 与时间戳。
func prepare(d Draft, now time.Time) (Draft, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return Draft{}, errors.Join(ErrInvalidInput, errors.New("name is required"))
	}
	if err := validData(d.Data); err != nil {
		return Draft{}, err
	}
	d.ID = uuid.NewString()
	d.CreatedAt = now.UTC()
	d.UpdatedAt = d.CreatedAt
	return d, nil
}

// apply 在 d 上应用更新。
func apply(d Draft, p Patch, now time.Time) (Draft, error) {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return Draft{}, errors.Join(ErrInvalidInput, errors.New("name is required"))
		}
		d.Name = name
	}
	if p.Template != nil {
		d.Template = strings.TrimSpace(*p.Template)
	}
	if p.Data != nil {
		if err := validData(p.Data); err != nil {
			return Draft{}, err
		}
		d.Data = append(json.RawMessage(nil), p.Data...)
	}
	d.UpdatedAt = now.UTC()
	return d, nil
}

func validData(data json.RawMessage) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || !json.Valid(data) || !strings.HasPrefix(trimmed, "{") {
		return errors.Join(ErrInvalidInput, errors.New("data must be a JSON object"))
	}
	return nil
}
