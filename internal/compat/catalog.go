package compat

import (
	"errors"
	"fmt"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
)

// ErrNotFound 引用的模型基底或资源不存在
var ErrNotFound = errors.New("not found")

// Catalog 解析器依赖的只读参考数据
//
// AvatarBase/Asset 找不到时返回包装了 ErrNotFound 的错误；
// CompatibilityEntry 找不到时返回 ok=false，这不是错误。
type Catalog interface {
	AvatarBase(id string) (model.AvatarBase, error)
	Asset(id int64) (model.Asset, error)
	CompatibilityEntry(source, target string) (model.CompatibilityEntry, bool, error)
}

// Pair 兼容矩阵的有向键
type Pair struct {
	Source string
	Target string
}

// Tables 不可变的内存参考表，构造后只读
type Tables struct {
	avatars map[string]model.AvatarBase
	assets  map[int64]model.Asset
	matrix  map[Pair]model.CompatibilityEntry
}

// NewTables 用显式数据构建参考表；重复的键后者覆盖前者
func NewTables(avatars []model.AvatarBase, assets []model.Asset, entries []model.CompatibilityEntry) *Tables {
	t := &Tables{
		avatars: make(map[string]model.AvatarBase, len(avatars)),
		assets:  make(map[int64]model.Asset, len(assets)),
		matrix:  make(map[Pair]model.CompatibilityEntry, len(entries)),
	}
	for _, a := range avatars {
		t.avatars[a.ID] = a
	}
	for _, a := range assets {
		a.CompatibleWith = append([]string(nil), a.CompatibleWith...)
		t.assets[a.ID] = a
	}
	for _, e := range entries {
		t.matrix[Pair{Source: e.Source, Target: e.Target}] = e
	}
	return t
}

// AvatarBase 按 id 查找模型基底
func (t *Tables) AvatarBase(id string) (model.AvatarBase, error) {
	a, ok := t.avatars[id]
	if !ok {
		return model.AvatarBase{}, fmt.Errorf("avatar base %q: %w", id, ErrNotFound)
	}
	return a, nil
}

// Asset 按 id 查找资源
func (t *Tables) Asset(id int64) (model.Asset, error) {
	a, ok := t.assets[id]
	if !ok {
		return model.Asset{}, fmt.Errorf("asset %d: %w", id, ErrNotFound)
	}
	return a, nil
}

// CompatibilityEntry 查找 (source, target) 记录，不做反向查找
func (t *Tables) CompatibilityEntry(source, target string) (model.CompatibilityEntry, bool, error) {
	e, ok := t.matrix[Pair{Source: source, Target: target}]
	return e, ok, nil
}
