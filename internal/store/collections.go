package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
)

// CreateCollection 创建合集，ID 由 uuid 生成
func (s *Store) CreateCollection(name, description string, assetIDs []int64) (model.Collection, error) {
	var out model.Collection
	err := s.WithTx(func(tx *sql.Tx) error {
		c, err := createCollection(tx, name, description, assetIDs, time.Now().UTC())
		out = c
		return err
	})
	return out, err
}

func createCollection(db execer, name, description string, assetIDs []int64, now time.Time) (model.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Collection{}, errors.New("collection name is required")
	}
	c := model.Collection{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		AssetIDs:    []int64{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := db.Exec(
		"INSERT INTO collections (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return model.Collection{}, fmt.Errorf("failed to create collection: %w", err)
	}
	seen := make(map[int64]struct{}, len(assetIDs))
	for _, id := range assetIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if err := addToCollection(db, c.ID, id); err != nil {
			return model.Collection{}, err
		}
		c.AssetIDs = append(c.AssetIDs, id)
	}
	return c, nil
}

// ListCollections 所有合集（按创建时间）
func (s *Store) ListCollections() ([]model.Collection, error) {
	rows, err := s.db.Query("SELECT id, name, description, created_at, updated_at FROM collections ORDER BY created_at, name")
	if err != nil {
		return nil, fmt.Errorf("query collections failed: %w", err)
	}
	defer rows.Close()

	out := []model.Collection{}
	for rows.Next() {
		var c model.Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan collection failed: %w", err)
		}
		c.AssetIDs = []int64{}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members, err := s.collectionMembers("")
	if err != nil {
		return nil, err
	}
	for i := range out {
		if ids, ok := members[out[i].ID]; ok {
			out[i].AssetIDs = ids
		}
	}
	return out, nil
}

// GetCollection 获取合集
func (s *Store) GetCollection(id string) (model.Collection, error) {
	var c model.Collection
	err := s.db.QueryRow(
		"SELECT id, name, description, created_at, updated_at FROM collections WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Collection{}, fmt.Errorf("collection %s: %w", id, ErrNotFound)
		}
		return model.Collection{}, err
	}
	members, err := s.collectionMembers(id)
	if err != nil {
		return model.Collection{}, err
	}
	c.AssetIDs = members[id]
	if c.AssetIDs == nil {
		c.AssetIDs = []int64{}
	}
	return c, nil
}

// UpdateCollection 修改名称/描述，nil 表示不修改
func (s *Store) UpdateCollection(id string, name, description *string) (model.Collection, error) {
	sets := []string{}
	args := []any{}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return model.Collection{}, errors.New("collection name is required")
		}
		sets = append(sets, "name = ?")
		args = append(args, n)
	}
	if description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *description)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	res, err := s.db.Exec("UPDATE collections SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return model.Collection{}, fmt.Errorf("failed to update collection: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Collection{}, fmt.Errorf("collection %s: %w", id, ErrNotFound)
	}
	return s.GetCollection(id)
}

// DeleteCollection 删除合集（资源本身不受影响）
func (s *Store) DeleteCollection(id string) error {
	res, err := s.db.Exec("DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("collection %s: %w", id, ErrNotFound)
	}
	return nil
}

// AddToCollection 向合集添加资源，已存在时忽略
func (s *Store) AddToCollection(collectionID string, assetID int64) error {
	return s.WithTx(func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRow("SELECT COUNT(1) FROM collections WHERE id = ?", collectionID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("collection %s: %w", collectionID, ErrNotFound)
		}
		if err := tx.QueryRow("SELECT COUNT(1) FROM assets WHERE id = ?", assetID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("asset %d: %w", assetID, ErrNotFound)
		}
		if err := addToCollection(tx, collectionID, assetID); err != nil {
			return err
		}
		_, err := tx.Exec("UPDATE collections SET updated_at = ? WHERE id = ?", time.Now().UTC(), collectionID)
		return err
	})
}

func addToCollection(db execer, collectionID string, assetID int64) error {
	_, err := db.Exec(`
		INSERT OR IGNORE INTO collection_assets (collection_id, asset_id, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM collection_assets WHERE collection_id = ?))
	`, collectionID, assetID, collectionID)
	if err != nil {
		return fmt.Errorf("failed to add asset %d to collection: %w", assetID, err)
	}
	return nil
}

// RemoveFromCollection 从合集移除资源
func (s *Store) RemoveFromCollection(collectionID string, assetID int64) error {
	res, err := s.db.Exec("DELETE FROM collection_assets WHERE collection_id = ? AND asset_id = ?", collectionID, assetID)
	if err != nil {
		return fmt.Errorf("failed to remove asset from collection: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("asset %d in collection %s: %w", assetID, collectionID, ErrNotFound)
	}
	_, err = s.db.Exec("UPDATE collections SET updated_at = ? WHERE id = ?", time.Now().UTC(), collectionID)
	return err
}

// collectionMembers collectionID 为空时返回全部合集
func (s *Store) collectionMembers(collectionID string) (map[string][]int64, error) {
	query := "SELECT collection_id, asset_id FROM collection_assets"
	args := []any{}
	if collectionID != "" {
		query += " WHERE collection_id = ?"
		args = append(args, collectionID)
	}
	query += " ORDER BY collection_id, position"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query collection members failed: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]int64)
	for rows.Next() {
		var cid string
		var aid int64
		if err := rows.Scan(&cid, &aid); err != nil {
			return nil, err
		}
		out[cid] = append(out[cid], aid)
	}
	return out, rows.Err()
}
