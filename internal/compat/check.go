package compat

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Mode 查询模式
type Mode string

const (
	ModeAsset   Mode = "asset"   // 资源 ↔ 模型基底
	ModeAvatars Mode = "avatars" // 模型基底 ↔ 模型基底
)

// ErrInvalidQuery 查询参数不完整
var ErrInvalidQuery = errors.New("invalid compatibility query")

// Query 一次兼容性查询
type Query struct {
	Mode     Mode   `json:"mode"`
	AvatarID string `json:"avatarId,omitempty"` // ModeAsset
	AssetID  int64  `json:"assetId,omitempty"`  // ModeAsset
	SourceID string `json:"sourceId,omitempty"` // ModeAvatars
	TargetID string `json:"targetId,omitempty"` // ModeAvatars
}

// Validate 调用方在提交查询前的参数检查
func (q Query) Validate() error {
	switch q.Mode {
	case ModeAsset:
		if q.AvatarID == "" || q.AssetID <= 0 {
			return fmt.Errorf("%w: avatarId and assetId are required", ErrInvalidQuery)
		}
	case ModeAvatars:
		if q.SourceID == "" || q.TargetID == "" {
			return fmt.Errorf("%w: sourceId and targetId are required", ErrInvalidQuery)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidQuery, q.Mode)
	}
	return nil
}

// Resolve 同步执行查询
func (r *Resolver) Resolve(q Query) (Result, error) {
	if err := q.Validate(); err != nil {
		return Result{}, err
	}
	if q.Mode == ModeAsset {
		return r.ResolveAsset(q.AvatarID, q.AssetID)
	}
	return r.ResolveAvatars(q.SourceID, q.TargetID)
}

// Check 带延迟的查询，用于模拟界面上的异步检查
//
// delay<=0 时等同于 Resolve。ctx 取消时丢弃结果并返回 ctx.Err()。
func (r *Resolver) Check(ctx context.Context, q Query, delay time.Duration) (Result, error) {
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return r.Resolve(q)
}
