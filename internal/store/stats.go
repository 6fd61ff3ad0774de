package store

import (
	"fmt"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
)

// AssetStats 资源统计（按类型计数、收藏数、总大小）
func (s *Store) AssetStats() (model.AssetStats, error) {
	stats := model.AssetStats{ByType: make(map[model.AssetType]int, len(model.AllAssetTypes))}
	for _, t := range model.AllAssetTypes {
		stats.ByType[t] = 0
	}

	rows, err := s.db.Query(`
		SELECT type, COUNT(1), COALESCE(SUM(favorite), 0), COALESCE(SUM(file_size), 0)
		FROM assets
		GROUP BY type
	`)
	if err != nil {
		return model.AssetStats{}, fmt.Errorf("query asset stats failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var count, favorites int
		var bytes int64
		if err := rows.Scan(&typ, &count, &favorites, &bytes); err != nil {
			return model.AssetStats{}, fmt.Errorf("scan asset stats failed: %w", err)
		}
		stats.ByType[model.AssetType(typ)] = count
		stats.Total += count
		stats.Favorites += favorites
		stats.TotalBytes += bytes
	}
	if err := rows.Err(); err != nil {
		return model.AssetStats{}, fmt.Errorf("iterate asset stats failed: %w", err)
	}
	return stats, nil
}

// CountCollections 合集数量
func (s *Store) CountCollections() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM collections").Scan(&n); err != nil {
		return 0, fmt.Errorf("count collections failed: %w", err)
	}
	return n, nil
}
