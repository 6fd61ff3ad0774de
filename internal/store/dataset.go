package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
)

// CollectionSeed 待创建的合集，AssetIndexes 指向 Dataset.Assets 的下标
type CollectionSeed struct {
	Name         string
	Description  string
	AssetIndexes []int
}

// Dataset 一次性写入的完整数据
type Dataset struct {
	CatalogVersion string
	AvatarBases    []model.AvatarBase
	Compatibility  []model.CompatibilityEntry
	Assets         []model.Asset
	Collections    []CollectionSeed
}

// LoadDataset 在一个事务中清空并写入数据集，成功后回填 Assets 的 ID
//
// 偏好项只补充缺失的默认值，不覆盖已有设置。
func (s *Store) LoadDataset(ds *Dataset) error {
	return s.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			DELETE FROM collection_assets;
			DELETE FROM collections;
			DELETE FROM asset_tags;
			DELETE FROM asset_compatibility;
			DELETE FROM assets;
		`); err != nil {
			return fmt.Errorf("clear dataset: %w", err)
		}
		if err := replaceReference(tx, ds.CatalogVersion, ds.AvatarBases, ds.Compatibility); err != nil {
			return err
		}
		for i := range ds.Assets {
			if err := insertAsset(tx, &ds.Assets[i]); err != nil {
				return err
			}
		}
		now := time.Now().UTC()
		for i, c := range ds.Collections {
			ids := make([]int64, 0, len(c.AssetIndexes))
			for _, idx := range c.AssetIndexes {
				if idx < 0 || idx >= len(ds.Assets) {
					return fmt.Errorf("collection %q references asset index %d out of range", c.Name, idx)
				}
				ids = append(ids, ds.Assets[idx].ID)
			}
			// 保证合集按定义顺序排列
			if _, err := createCollection(tx, c.Name, c.Description, ids, now.Add(time.Duration(i)*time.Millisecond)); err != nil {
				return err
			}
		}
		for k, v := range DefaultSettings {
			if _, err := tx.Exec("INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)", k, v); err != nil {
				return fmt.Errorf("init setting %s: %w", k, err)
			}
		}
		return nil
	})
}
