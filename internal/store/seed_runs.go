package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// SeedRun 一次模拟数据生成记录
type SeedRun struct {
	ID              int64      `json:"id"`
	Seed            uint64     `json:"seed"`
	CatalogVersion  string     `json:"catalogVersion"`
	AssetCount      int        `json:"assetCount"`
	CollectionCount int        `json:"collectionCount"`
	Status          string     `json:"status"`
	ErrorMessage    string     `json:"errorMessage,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// CreateSeedRun 创建生成记录，返回 seed_run_id
func (s *Store) CreateSeedRun(seed uint64, catalogVersion string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO seed_runs (seed, catalog_version, status)
		VALUES (?, ?, 'processing')
	`, strconv.FormatUint(seed, 10), catalogVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to create seed run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get seed run id: %w", err)
	}
	return id, nil
}

// CompleteSeedRun 完成生成记录更新
func (s *Store) CompleteSeedRun(id int64, assetCount, collectionCount int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE seed_runs SET
			asset_count = ?,
			collection_count = ?,
			status = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ?
	`, assetCount, collectionCount, status, errorMessage, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update seed run: %w", err)
	}
	return nil
}

// LastSeedRun 最近一次生成记录
func (s *Store) LastSeedRun() (*SeedRun, error) {
	var run SeedRun
	var seed string
	var completed sql.NullTime
	err := s.db.QueryRow(`
		SELECT id, seed, catalog_version, asset_count, collection_count, status, error_message, completed_at
		FROM seed_runs ORDER BY id DESC LIMIT 1
	`).Scan(&run.ID, &seed, &run.CatalogVersion, &run.AssetCount, &run.CollectionCount, &run.Status, &run.ErrorMessage, &completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query last seed run failed: %w", err)
	}
	run.Seed, _ = strconv.ParseUint(seed, 10, 64)
	if completed.Valid {
		t := completed.Time
		run.CompletedAt = &t
	}
	return &run, nil
}
