package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/compat"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
)

// Store 同时作为兼容性解析器的数据源
var _ compat.Catalog = (*Store)(nil)

// ReplaceReference 整体替换模型基底与兼容矩阵，并记录参考数据版本
func (s *Store) ReplaceReference(version string, avatars []model.AvatarBase, entries []model.CompatibilityEntry) error {
	return s.WithTx(func(tx *sql.Tx) error {
		return replaceReference(tx, version, avatars, entries)
	})
}

// CatalogVersion 当前生效的参考数据版本，尚未载入时为空
func (s *Store) CatalogVersion() (string, error) {
	var version string
	err := s.db.QueryRow("SELECT version FROM reference_meta WHERE id = 1").Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("query catalog version: %w", err)
	}
	return version, nil
}

func replaceReference(db execer, version string, avatars []model.AvatarBase, entries []model.CompatibilityEntry) error {
	if _, err := db.Exec("DELETE FROM compatibility_matrix"); err != nil {
		return fmt.Errorf("clear compatibility matrix: %w", err)
	}
	if _, err := db.Exec("DELETE FROM avatar_bases"); err != nil {
		return fmt.Errorf("clear avatar bases: %w", err)
	}
	for i, a := range avatars {
		if _, err := db.Exec(
			"INSERT INTO avatar_bases (id, name, sort_order) VALUES (?, ?, ?)",
			a.ID, a.Name, i,
		); err != nil {
			return fmt.Errorf("insert avatar base %s: %w", a.ID, err)
		}
	}
	for _, e := range entries {
		if _, err := db.Exec(`
			INSERT INTO compatibility_matrix (source_name, target_name, bone_structure, materials, animations, notes)
			VALUES (?, ?, ?, ?, ?, ?)
		`, e.Source, e.Target, e.BoneStructure.String(), e.Materials.String(), e.Animations.String(), e.Notes); err != nil {
			return fmt.Errorf("insert compatibility %s -> %s: %w", e.Source, e.Target, err)
		}
	}
	if _, err := db.Exec(`
		INSERT INTO reference_meta (id, version, loaded_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET version = excluded.version, loaded_at = excluded.loaded_at
	`, version); err != nil {
		return fmt.Errorf("record catalog version: %w", err)
	}
	return nil
}

// ListAvatarBases 模型基底列表（按参考数据中的顺序）
func (s *Store) ListAvatarBases() ([]model.AvatarBase, error) {
	rows, err := s.db.Query("SELECT id, name FROM avatar_bases ORDER BY sort_order, id")
	if err != nil {
		return nil, fmt.Errorf("query avatar bases failed: %w", err)
	}
	defer rows.Close()

	out := []model.AvatarBase{}
	for rows.Next() {
		var a model.AvatarBase
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan avatar base failed: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AvatarBase 按 id 获取模型基底
func (s *Store) AvatarBase(id string) (model.AvatarBase, error) {
	var a model.AvatarBase
	err := s.db.QueryRow("SELECT id, name FROM avatar_bases WHERE id = ?", id).Scan(&a.ID, &a.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AvatarBase{}, fmt.Errorf("avatar base %q: %w", id, ErrNotFound)
		}
		return model.AvatarBase{}, err
	}
	return a, nil
}

// CompatibilityEntry 按 (source, target) 查找，不存在时 ok=false
func (s *Store) CompatibilityEntry(source, target string) (model.CompatibilityEntry, bool, error) {
	row := s.db.QueryRow(`
		SELECT source_name, target_name, bone_structure, materials, animations, notes
		FROM compatibility_matrix WHERE source_name = ? AND target_name = ?
	`, source, target)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CompatibilityEntry{}, false, nil
		}
		return model.CompatibilityEntry{}, false, err
	}
	return e, true, nil
}

// ListCompatibilityEntries 完整兼容矩阵
func (s *Store) ListCompatibilityEntries() ([]model.CompatibilityEntry, error) {
	rows, err := s.db.Query(`
		SELECT source_name, target_name, bone_structure, materials, animations, notes
		FROM compatibility_matrix ORDER BY source_name, target_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query compatibility matrix failed: %w", err)
	}
	defer rows.Close()

	out := []model.CompatibilityEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (model.CompatibilityEntry, error) {
	var e model.CompatibilityEntry
	var bone, mat, anim string
	if err := row.Scan(&e.Source, &e.Target, &bone, &mat, &anim, &e.Notes); err != nil {
		return model.CompatibilityEntry{}, err
	}
	var err error
	if e.BoneStructure, err = model.ParseStatus(bone); err != nil {
		return model.CompatibilityEntry{}, err
	}
	if e.Materials, err = model.ParseStatus(mat); err != nil {
		return model.CompatibilityEntry{}, err
	}
	if e.Animations, err = model.ParseStatus(anim); err != nil {
		return model.CompatibilityEntry{}, err
	}
	return e, nil
}
