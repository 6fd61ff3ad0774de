package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// 界面偏好键
const (
	SettingTheme       = "theme"        // light / dark
	SettingViewMode    = "view_mode"    // grid / list
	SettingDefaultSort = "default_sort" // 资源列表默认排序字段
	SettingPageSize    = "page_size"
)

// DefaultSettings 首次启动写入的偏好
var DefaultSettings = map[string]string{
	SettingTheme:       "dark",
	SettingViewMode:    "grid",
	SettingDefaultSort: "dateAdded",
	SettingPageSize:    "24",
}

// GetSetting 获取偏好项
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("setting %s: %w", key, ErrNotFound)
		}
		return "", err
	}
	return value, nil
}

// GetSettingInt 获取整数偏好项
func (s *Store) GetSettingInt(key string) (int, error) {
	value, err := s.GetSetting(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// SetSettings 在一个事务中写入多项偏好，任一项失败时全部回滚
func (s *Store) SetSettings(values map[string]string) error {
	return s.WithTx(func(tx *sql.Tx) error {
		for k, v := range values {
			if err := setSetting(tx, k, v); err != nil {
				return fmt.Errorf("set setting %s: %w", k, err)
			}
		}
		return nil
	})
}

func setSetting(db execer, key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// GetAllSettings 获取所有偏好项
func (s *Store) GetAllSettings() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}

	return settings, rows.Err()
}
